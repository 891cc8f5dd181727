// Package metrics defines the Prometheus collectors of the read-through layer.
//
// Cache Metrics:
//   - movies_api_cache_hits_total{kind} (Counter): reads served from the cache
//   - movies_api_cache_misses_total{kind} (Counter): reads that fell through to search
//   - movies_api_cache_errors_total{kind, operation} (Counter): absorbed cache faults
//     (operation: get, set, decode, encode)
//
// Search Metrics:
//   - movies_api_search_requests_total{kind, operation, outcome} (Counter)
//     (outcome: hit, empty, error)
//   - movies_api_search_duration_seconds{kind, operation} (Histogram)
//
// HTTP Metrics:
//   - movies_api_http_requests_total{method, route, status} (Counter)
//   - movies_api_http_request_duration_seconds{method, route} (Histogram)
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate
//	sum(rate(movies_api_cache_hits_total[5m])) /
//	(sum(rate(movies_api_cache_hits_total[5m])) + sum(rate(movies_api_cache_misses_total[5m])))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups all collectors. Create one per registry.
type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CacheErrors    *prometheus.CounterVec
	SearchRequests *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_api_cache_hits_total",
				Help: "Total number of reads served from the cache",
			},
			[]string{"kind"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_api_cache_misses_total",
				Help: "Total number of reads that missed the cache",
			},
			[]string{"kind"},
		),
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_api_cache_errors_total",
				Help: "Total number of absorbed cache operation errors",
			},
			[]string{"kind", "operation"},
		),
		SearchRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_api_search_requests_total",
				Help: "Total number of search backend requests by outcome",
			},
			[]string{"kind", "operation", "outcome"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "movies_api_search_duration_seconds",
				Help:    "Search backend request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "operation"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_api_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "movies_api_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
