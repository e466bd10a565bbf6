package resolver

import (
	"context"
	"sync"
)

// Static serves lookups from a fixed in-memory map. Used when the server
// runs without an origin (preload-only mode) and as a test double.
type Static struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStatic(values map[string][]byte) *Static {
	if values == nil {
		values = make(map[string][]byte)
	}
	return &Static{values: values}
}

func (s *Static) Resolve(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set replaces the value for key. Mainly for tests.
func (s *Static) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
