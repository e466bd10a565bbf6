package lru

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(t *testing.T, capacity int, ttl time.Duration) (*Cache, *fakeClock) {
	t.Helper()
	c, err := New(capacity, ttl)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c.now = clk.Now
	return c, clk
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, time.Second); err != ErrBadCapacity {
		t.Fatalf("expected ErrBadCapacity, got %v", err)
	}
	if _, err := New(-1, time.Second); err != ErrBadCapacity {
		t.Fatalf("expected ErrBadCapacity, got %v", err)
	}
	if _, err := New(4, -time.Second); err != ErrNegativeTTL {
		t.Fatalf("expected ErrNegativeTTL, got %v", err)
	}
	if _, err := New(4, 0); err != nil {
		t.Fatalf("zero ttl must be accepted, got %v", err)
	}
}

func TestPutGet(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Minute)
	c.Put("hello", []byte("world"))

	got, ok := c.Get("hello")
	if !ok {
		t.Fatalf("expected hit")
	}
	if string(got) != "world" {
		t.Fatalf("unexpected value: %s", got)
	}
	if _, ok := c.Get("absent"); ok {
		t.Fatalf("expected miss for absent key")
	}
}

func TestTTLExpiryBoundary(t *testing.T) {
	const ttl = 10 * time.Second
	c, clk := newTestCache(t, 4, ttl)
	c.Put("k", []byte("v"))

	// just inside the window
	clk.Advance(ttl - time.Nanosecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit at t0+ttl-eps")
	}

	// exactly at the window edge: age == ttl is still valid
	clk.Advance(time.Nanosecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit at exactly t0+ttl")
	}

	// one instant later the entry is gone
	clk.Advance(time.Nanosecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss at t0+ttl+eps")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry still present, len=%d", c.Len())
	}
}

func TestZeroTTLExpiresImmediately(t *testing.T) {
	c, clk := newTestCache(t, 4, 0)
	c.Put("k", []byte("v"))

	// lookup in the same instant still sees the value
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit at insertion instant")
	}

	clk.Advance(time.Nanosecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected zero-ttl entry to be expired")
	}
}

func TestLRUEvictionOrder(t *testing.T) {
	const capacity = 3
	c, _ := newTestCache(t, capacity, time.Hour)

	for i := 1; i <= capacity+1; i++ {
		c.Put(fmt.Sprintf("k%d", i), []byte{byte(i)})
	}

	// k1 was least recently used and must be the one evicted
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("expected k1 evicted")
	}
	for i := 2; i <= capacity+1; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Fatalf("expected k%d present", i)
		}
	}
}

func TestGetPromotesAgainstEviction(t *testing.T) {
	const capacity = 3
	c, _ := newTestCache(t, capacity, time.Hour)

	c.Put("k1", []byte("1"))
	c.Put("k2", []byte("2"))
	c.Put("k3", []byte("3"))

	// promote k1; k2 becomes the eviction victim
	if _, ok := c.Get("k1"); !ok {
		t.Fatalf("expected k1 present before promotion test")
	}
	c.Put("k4", []byte("4"))

	if _, ok := c.Get("k2"); ok {
		t.Fatalf("expected k2 evicted after k1 promotion")
	}
	if _, ok := c.Get("k1"); !ok {
		t.Fatalf("expected promoted k1 to survive")
	}
}

func TestMissDoesNotReorder(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Hour)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))

	// misses in between must not disturb the recency order
	for i := 0; i < 5; i++ {
		if _, ok := c.Get("nope"); ok {
			t.Fatalf("unexpected hit")
		}
	}

	c.Put("c", []byte("3"))
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a evicted; recency order was disturbed by misses")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("expected b to survive")
	}
}

func TestPutResetsTTL(t *testing.T) {
	const ttl = 10 * time.Second
	c, clk := newTestCache(t, 4, ttl)

	c.Put("k", []byte("v1"))
	clk.Advance(8 * time.Second)

	// overwrite restarts the window
	c.Put("k", []byte("v2"))
	clk.Advance(8 * time.Second)

	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit: overwrite should have reset the ttl window")
	}
	if string(got) != "v2" {
		t.Fatalf("unexpected value after overwrite: %s", got)
	}

	clk.Advance(3 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expiry relative to the overwrite timestamp")
	}
}

func TestOverwritePromotes(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Hour)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))

	// re-Put a: it becomes MRU, so b is the next victim
	c.Put("a", []byte("1b"))
	c.Put("c", []byte("3"))

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	got, ok := c.Get("a")
	if !ok || string(got) != "1b" {
		t.Fatalf("expected overwritten a present, got %q ok=%v", got, ok)
	}
}

func TestStaleEntriesOccupyCapacity(t *testing.T) {
	const ttl = time.Second
	c, clk := newTestCache(t, 2, ttl)

	c.Put("stale1", []byte("1"))
	c.Put("stale2", []byte("2"))
	clk.Advance(time.Minute)

	// both entries are logically expired but never accessed, so they
	// still hold capacity slots and Len reflects that
	if c.Len() != 2 {
		t.Fatalf("expected stale entries physically present, len=%d", c.Len())
	}

	// inserting a fresh key evicts by LRU pressure, not by sweeping
	c.Put("fresh", []byte("3"))
	if c.Len() != 2 {
		t.Fatalf("expected len 2 after lru eviction, got %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c, clk := newTestCache(t, 2, time.Second)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))
	c.Put("c", []byte("3")) // evicts a

	c.Get("b")   // hit
	c.Get("zzz") // miss
	clk.Advance(2 * time.Second)
	c.Get("c") // expired -> expiration + miss

	s := c.Stats()
	if s.Hits != 1 {
		t.Errorf("hits = %d, want 1", s.Hits)
	}
	if s.Misses != 2 {
		t.Errorf("misses = %d, want 2", s.Misses)
	}
	if s.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", s.Evictions)
	}
	if s.Expirations != 1 {
		t.Errorf("expirations = %d, want 1", s.Expirations)
	}
	if s.Capacity != 2 {
		t.Errorf("capacity = %d, want 2", s.Capacity)
	}
}
