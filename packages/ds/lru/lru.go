// Package lru implements a capacity-bounded key/value cache combining
// least-recently-used eviction with per-entry time-to-live expiry.
//
// Expiry is lazy: an entry past its TTL is removed when it is next looked
// up, never by a background sweep. Until then it still occupies a
// capacity slot and can be displaced by LRU pressure like any other
// entry.
package lru

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

var (
	ErrBadCapacity = errors.New("lru: capacity must be positive")
	ErrNegativeTTL = errors.New("lru: ttl must not be negative")
)

// entry is the unit stored in the recency list. storedAt is reset on
// every Put so an overwrite opens a fresh TTL window.
type entry struct {
	key      string
	value    []byte
	storedAt time.Time
}

// Cache holds a mapping from key to list element and a recency list over
// the same entries, front = most recently used. Both views mutate under
// one mutex and never diverge.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	ll       *list.List

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64

	// now is swapped out in tests to control expiry.
	now func() time.Time
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Items       int    `json:"items"`
	Capacity    int    `json:"capacity"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// New creates a cache holding at most capacity entries, each valid for
// ttl after its last Put. A ttl of zero means entries expire immediately
// after insertion.
func New(capacity int, ttl time.Duration) (*Cache, error) {
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	if ttl < 0 {
		return nil, ErrNegativeTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		ll:       list.New(),
		now:      time.Now,
	}, nil
}

// Get returns the value for key and promotes it to most recently used.
// An entry older than the TTL is removed and reported as a miss; a miss
// never reorders the surviving entries.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if c.now().Sub(ent.storedAt) > c.ttl {
		c.removeElement(elem)
		c.expirations++
		c.misses++
		return nil, false
	}

	c.ll.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Put stores value under key at the most-recently-used position. An
// existing entry is overwritten with a fresh timestamp; the full TTL
// window starts over. When a new key would exceed capacity the least
// recently used entry is evicted first, with no TTL check.
func (c *Cache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.storedAt = c.now()
		c.ll.MoveToFront(elem)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
			c.evictions++
		}
	}

	elem := c.ll.PushFront(&entry{
		key:      key,
		value:    value,
		storedAt: c.now(),
	})
	c.items[key] = elem
}

// Len reports the number of physically present entries, expired ones
// included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Items:       len(c.items),
		Capacity:    c.capacity,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

// removeElement deletes an entry from both views. Callers hold c.mu.
func (c *Cache) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.items, ent.key)
	c.ll.Remove(elem)
}
