// Package store combines a bloom filter, a bounded LRU/TTL cache and an
// injected fallback resolver into one lookup path. A Get consults the
// filter first (no false negatives, so a negative is a guaranteed-absent
// answer), then the cache, and only then the slow source; resolved
// values are written back into cache and filter before being returned.
package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nvqanh/bloomcache/packages/ds/bloom"
	"github.com/nvqanh/bloomcache/packages/ds/lru"
)

// DefaultFilterHashes is used when Config.FilterHashes is left zero.
const DefaultFilterHashes = 5

var (
	ErrEmptyKey    = errors.New("store: empty key")
	ErrNilResolver = errors.New("store: nil resolver")
)

// Resolver is the fallback source of truth, typically a database or an
// upstream service. It must report absence through the found flag, never
// through a zero value, and must tolerate repeated calls for the same
// key. The store never retries it and never imposes a timeout; callers
// wanting either wrap their resolver.
type Resolver interface {
	Resolve(ctx context.Context, key string) (value []byte, found bool, err error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, key string) ([]byte, bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, key string) ([]byte, bool, error) {
	return f(ctx, key)
}

// Config is fixed at construction.
type Config struct {
	// Capacity is the maximum entry count of the recency cache.
	Capacity int
	// TTL bounds entry age; zero means entries expire immediately
	// after insertion.
	TTL time.Duration
	// FilterBits is the bloom filter size in bits.
	FilterBits uint64
	// FilterHashes is the probe count per key; zero selects
	// DefaultFilterHashes.
	FilterHashes uint64
	// CompressThreshold enables snappy compression of cached values at
	// or above this many bytes; zero disables compression.
	CompressThreshold int
	// Singleflight collapses concurrent resolver calls for the same
	// key. Off, concurrent misses for one key each reach the resolver.
	Singleflight bool
}

type Store struct {
	filter   *bloom.BloomFilter
	cache    *lru.Cache
	resolver Resolver

	compressThreshold int
	useSingleflight   bool
	flight            singleflight.Group

	hits           uint64
	misses         uint64
	filterRejected uint64
	resolverCalls  uint64
	resolverMisses uint64
	resolverErrors uint64
	writeBacks     uint64
}

// New validates cfg and builds the store. Non-positive capacity, zero
// filter size and zero hash count all fail here, never at call time.
func New(cfg Config, r Resolver) (*Store, error) {
	if r == nil {
		return nil, ErrNilResolver
	}
	if cfg.FilterHashes == 0 {
		cfg.FilterHashes = DefaultFilterHashes
	}

	filter, err := bloom.New(cfg.FilterBits, cfg.FilterHashes)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New(cfg.Capacity, cfg.TTL)
	if err != nil {
		return nil, err
	}

	return &Store{
		filter:            filter,
		cache:             cache,
		resolver:          r,
		compressThreshold: cfg.CompressThreshold,
		useSingleflight:   cfg.Singleflight,
	}, nil
}

// Get looks key up through filter, cache and resolver, in that order.
// The found flag is the only absence signal; err carries resolver
// failures unmodified. On a resolver error neither filter nor cache is
// touched. The returned slice may alias cache memory and must not be
// modified by the caller.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	if !s.filter.MayContain(key) {
		atomic.AddUint64(&s.filterRejected, 1)
		return nil, false, nil
	}

	if raw, ok := s.cache.Get(key); ok {
		atomic.AddUint64(&s.hits, 1)
		v, err := decodeValue(raw)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	atomic.AddUint64(&s.misses, 1)

	if s.useSingleflight {
		return s.resolveShared(ctx, key)
	}
	return s.resolve(ctx, key)
}

// Add records key in the filter and writes the value to the cache,
// bypassing the resolver. Used for direct population such as preloading.
func (s *Store) Add(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.filter.Add(key)
	s.cache.Put(key, s.encodeValue(value))
	return nil
}

// MayContain exposes the filter's answer: false is authoritative, true
// is not.
func (s *Store) MayContain(key string) bool {
	return s.filter.MayContain(key)
}

// resolve invokes the fallback and writes a found value back into cache
// and filter. An unresolved key pollutes neither structure.
func (s *Store) resolve(ctx context.Context, key string) ([]byte, bool, error) {
	atomic.AddUint64(&s.resolverCalls, 1)
	v, found, err := s.resolver.Resolve(ctx, key)
	if err != nil {
		atomic.AddUint64(&s.resolverErrors, 1)
		return nil, false, err
	}
	if !found {
		atomic.AddUint64(&s.resolverMisses, 1)
		return nil, false, nil
	}
	s.writeBack(key, v)
	return v, true, nil
}

func (s *Store) writeBack(key string, v []byte) {
	s.cache.Put(key, s.encodeValue(v))
	s.filter.Add(key)
	atomic.AddUint64(&s.writeBacks, 1)
}
