package store

import (
	"context"
	"sync/atomic"
)

// resolveResult carries the explicit found flag through the singleflight
// group, so an absent key is shared with waiters without faking an
// error.
type resolveResult struct {
	value []byte
	found bool
}

// resolveShared collapses concurrent resolver calls for the same key
// into one. Waiters that lose their context stop waiting; the in-flight
// resolve itself keeps running and still writes back.
func (s *Store) resolveShared(ctx context.Context, key string) ([]byte, bool, error) {
	resCh := s.flight.DoChan(key, func() (interface{}, error) {
		atomic.AddUint64(&s.resolverCalls, 1)
		v, found, err := s.resolver.Resolve(ctx, key)
		if err != nil {
			atomic.AddUint64(&s.resolverErrors, 1)
			return nil, err
		}
		if !found {
			atomic.AddUint64(&s.resolverMisses, 1)
			return resolveResult{}, nil
		}
		s.writeBack(key, v)
		return resolveResult{value: v, found: true}, nil
	})

	select {
	case r := <-resCh:
		if r.Err != nil {
			return nil, false, r.Err
		}
		res := r.Val.(resolveResult)
		return res.value, res.found, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
