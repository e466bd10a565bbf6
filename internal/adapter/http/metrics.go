package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nvqanh/bloomcache/packages/store"
)

// statsCollector bridges Store.Stats() to Prometheus without keeping a
// second set of counters in the store itself.
type statsCollector struct {
	store *store.Store

	hits           *prometheus.Desc
	misses         *prometheus.Desc
	filterRejected *prometheus.Desc
	resolverCalls  *prometheus.Desc
	resolverMisses *prometheus.Desc
	resolverErrors *prometheus.Desc
	writeBacks     *prometheus.Desc
	items          *prometheus.Desc
	evictions      *prometheus.Desc
	expirations    *prometheus.Desc
	fillRatio      *prometheus.Desc
	fpRate         *prometheus.Desc
}

func newStatsCollector(s *store.Store) *statsCollector {
	return &statsCollector{
		store: s,
		hits: prometheus.NewDesc("bloomcache_hits_total",
			"Lookups served from the recency cache.", nil, nil),
		misses: prometheus.NewDesc("bloomcache_misses_total",
			"Lookups that passed the filter but missed the cache.", nil, nil),
		filterRejected: prometheus.NewDesc("bloomcache_filter_rejected_total",
			"Lookups short-circuited by a negative filter answer.", nil, nil),
		resolverCalls: prometheus.NewDesc("bloomcache_resolver_calls_total",
			"Fallback resolver invocations.", nil, nil),
		resolverMisses: prometheus.NewDesc("bloomcache_resolver_misses_total",
			"Resolver invocations that found nothing.", nil, nil),
		resolverErrors: prometheus.NewDesc("bloomcache_resolver_errors_total",
			"Resolver invocations that failed.", nil, nil),
		writeBacks: prometheus.NewDesc("bloomcache_write_backs_total",
			"Resolved values written back into cache and filter.", nil, nil),
		items: prometheus.NewDesc("bloomcache_items",
			"Entries physically present in the cache.", nil, nil),
		evictions: prometheus.NewDesc("bloomcache_evictions_total",
			"Entries evicted by capacity pressure.", nil, nil),
		expirations: prometheus.NewDesc("bloomcache_expirations_total",
			"Entries removed after exceeding their TTL.", nil, nil),
		fillRatio: prometheus.NewDesc("bloomcache_filter_fill_ratio",
			"Fraction of set bits in the bloom filter.", nil, nil),
		fpRate: prometheus.NewDesc("bloomcache_filter_false_positive_rate",
			"Estimated filter false positive probability.", nil, nil),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.filterRejected
	ch <- c.resolverCalls
	ch <- c.resolverMisses
	ch <- c.resolverErrors
	ch <- c.writeBacks
	ch <- c.items
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.fillRatio
	ch <- c.fpRate
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.store.Stats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.hits, st.Hits)
	counter(c.misses, st.Misses)
	counter(c.filterRejected, st.FilterRejected)
	counter(c.resolverCalls, st.ResolverCalls)
	counter(c.resolverMisses, st.ResolverMisses)
	counter(c.resolverErrors, st.ResolverErrors)
	counter(c.writeBacks, st.WriteBacks)
	gauge(c.items, float64(st.Items))
	counter(c.evictions, st.Evictions)
	counter(c.expirations, st.Expirations)
	gauge(c.fillRatio, st.FilterFillRatio)
	gauge(c.fpRate, st.FilterFPRate)
}
