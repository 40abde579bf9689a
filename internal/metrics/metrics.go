package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Upstream Skill API calls, labelled by logical operation, endpoint
	// family (rest/rpc) and outcome (ok/error/fallback)
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_upstream_requests_total",
		Help: "Upstream Skill API calls by operation, family and outcome",
	}, []string{"operation", "family", "outcome"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "In-memory catalog cache hits by cache name",
	}, []string{"cache"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "In-memory catalog cache misses by cache name",
	}, []string{"cache"})

	AvailabilityInferenceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_inference_fallback_total",
		Help: "Times room availability was inferred because the endpoint was empty or down",
	})
)
