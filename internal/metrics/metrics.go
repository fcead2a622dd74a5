// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Dataset fetch attempts, retries and stale fallbacks
// - Cache efficiency
// - Search throughput
// - HTTP endpoint latency

var (
	// Dataset Loader Metrics
	DatasetFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_dataset_fetch_attempts_total",
			Help: "Total number of dataset fetch attempts, including retries",
		},
		[]string{"dataset", "result"}, // result: "success", "failure"
	)

	DatasetFetchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_dataset_fetch_retries_total",
			Help: "Total number of dataset fetch retries after a failed attempt",
		},
		[]string{"dataset"},
	)

	DatasetStaleFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_dataset_stale_fallbacks_total",
			Help: "Total number of loads served from expired cache after fetch failure",
		},
		[]string{"dataset"},
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitrina_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset", "source"}, // source: "cache", "fetch", "stale"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrina_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrina_cache_misses_total",
			Help: "Total number of cache misses or stale reads requiring a fetch",
		},
	)

	// Search Metrics
	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrina_search_queries_total",
			Help: "Total number of search queries executed",
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vitrina_search_results",
			Help:    "Number of items returned per search query",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitrina_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Circuit Breaker Metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vitrina_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrina_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)
)

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}
