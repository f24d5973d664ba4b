// Package metrics defines the Prometheus collectors shared across the
// application. Collectors are registered on the default registry via promauto
// and exposed by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assessment cache metrics
var (
	// CacheHits tracks expiry-aware cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_cache_hits_total",
			Help: "Total assessment cache hits",
		},
	)

	// CacheMisses tracks cache misses (absent or expired)
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_cache_misses_total",
			Help: "Total assessment cache misses",
		},
	)

	// CacheStaleHits tracks stale entries served under the rate-limit fallback
	CacheStaleHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_cache_stale_hits_total",
			Help: "Total stale cache entries served as rate-limit fallback",
		},
	)

	// CacheEvictions tracks entries removed by sweeps and eviction timers
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_cache_evictions_total",
			Help: "Total expired cache entries evicted",
		},
	)

	// CacheSize tracks the current number of entries (including expired, unswept)
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assessment_cache_size",
			Help: "Current number of cache entries",
		},
	)
)

// Rate limiting metrics
var (
	// RateLimitRejections tracks local admission rejections by limiter kind
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total requests rejected by local rate limiting, by limiter",
		},
		[]string{"limiter"},
	)

	// RateLimitClients tracks the number of tracked client identities
	RateLimitClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_tracked_clients",
			Help: "Current number of client identities with a rate window",
		},
	)
)

// Upstream collaborator metrics
var (
	// UpstreamRequests tracks collaborator calls by provider and outcome
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total upstream collaborator requests by provider and status",
		},
		[]string{"provider", "status"},
	)

	// UpstreamDuration tracks collaborator call latency in seconds
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream collaborator request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)
)

// Evaluation metrics
var (
	// Evaluations tracks assessment evaluations by outcome
	// (cached, fresh, stale_fallback, error)
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_evaluations_total",
			Help: "Total market sentiment evaluations by outcome",
		},
		[]string{"outcome"},
	)
)
