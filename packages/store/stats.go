package store

import "sync/atomic"

// Stats is a point-in-time report over the whole lookup path.
type Stats struct {
	Hits           uint64 `json:"hits"`
	Misses         uint64 `json:"misses"`
	FilterRejected uint64 `json:"filter_rejected"`
	ResolverCalls  uint64 `json:"resolver_calls"`
	ResolverMisses uint64 `json:"resolver_misses"`
	ResolverErrors uint64 `json:"resolver_errors"`
	WriteBacks     uint64 `json:"write_backs"`

	Items       int    `json:"items"`
	Capacity    int    `json:"capacity"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`

	FilterFillRatio float64 `json:"filter_fill_ratio"`
	FilterFPRate    float64 `json:"filter_false_positive_rate"`
}

// Stats aggregates the store's atomic counters with the cache and
// filter views.
func (s *Store) Stats() Stats {
	cs := s.cache.Stats()
	return Stats{
		Hits:           atomic.LoadUint64(&s.hits),
		Misses:         atomic.LoadUint64(&s.misses),
		FilterRejected: atomic.LoadUint64(&s.filterRejected),
		ResolverCalls:  atomic.LoadUint64(&s.resolverCalls),
		ResolverMisses: atomic.LoadUint64(&s.resolverMisses),
		ResolverErrors: atomic.LoadUint64(&s.resolverErrors),
		WriteBacks:     atomic.LoadUint64(&s.writeBacks),

		Items:       cs.Items,
		Capacity:    cs.Capacity,
		Evictions:   cs.Evictions,
		Expirations: cs.Expirations,

		FilterFillRatio: s.filter.FillRatio(),
		FilterFPRate:    s.filter.EstimatedFalsePositiveRate(),
	}
}
