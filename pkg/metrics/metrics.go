package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TileRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_requests_total",
		Help: "Total number of tile requests",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_cache_hits_total",
		Help: "Total number of disk cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_cache_misses_total",
		Help: "Total number of disk cache misses",
	})

	CacheStores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_cache_stores_total",
		Help: "Total number of tiles written to the disk cache",
	})

	CacheStoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_cache_store_errors_total",
		Help: "Total number of failed disk cache writes",
	})

	UpstreamRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_upstream_requests_total",
		Help: "Total number of upstream tile fetches",
	})

	UpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_upstream_failures_total",
		Help: "Total number of failed upstream tile fetches",
	})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tiles_upstream_latency_seconds",
		Help:    "Latency of upstream tile fetches in seconds",
		Buckets: prometheus.DefBuckets,
	})

	InflightJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_inflight_joins_total",
		Help: "Total number of fetch callers that joined an in-flight fetch instead of starting one",
	})

	PrefetchTiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_prefetch_tiles_total",
		Help: "Total number of tiles submitted by the prefetch scheduler",
	})

	PrefetchSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiles_prefetch_skipped_total",
		Help: "Total number of prefetch tiles skipped because they were already cached",
	})
)
