// Package metrics provides Prometheus metrics for the catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks inbound API requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinelist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound API request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinelist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TMDbRequestsTotal tracks outbound TMDb requests by endpoint and outcome
	TMDbRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinelist",
			Subsystem: "tmdb",
			Name:      "requests_total",
			Help:      "Total number of outbound TMDb requests",
		},
		[]string{"endpoint", "status_code"},
	)

	// TMDbRequestDuration tracks outbound TMDb request duration
	TMDbRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinelist",
			Subsystem: "tmdb",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound TMDb requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// RateLimitWaitTime tracks time spent waiting on the TMDb limiter
	RateLimitWaitTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cinelist",
			Subsystem: "ratelimit",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for the TMDb rate limiter in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
	)

	// ExternalFallbacksTotal counts remote failures answered with an empty result
	ExternalFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinelist",
			Subsystem: "catalog",
			Name:      "external_fallbacks_total",
			Help:      "Total number of external catalog failures served as empty results",
		},
		[]string{"operation"},
	)

	// FavoriteChangesTotal counts favorite flag transitions
	FavoriteChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinelist",
			Subsystem: "catalog",
			Name:      "favorite_changes_total",
			Help:      "Total number of movies added to or removed from favorites",
		},
		[]string{"action", "source"},
	)
)

// RecordHTTPRequest records an inbound request metric
func RecordHTTPRequest(method, route, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordTMDbRequest records an outbound TMDb request metric
func RecordTMDbRequest(endpoint, statusCode string, durationSeconds float64) {
	TMDbRequestsTotal.WithLabelValues(endpoint, statusCode).Inc()
	TMDbRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordFallback records a fail-open external call
func RecordFallback(operation string) {
	ExternalFallbacksTotal.WithLabelValues(operation).Inc()
}

// RecordFavoriteChange records a favorite flag change. Source is "local"
// or "remote" depending on where the record came from.
func RecordFavoriteChange(action, source string) {
	FavoriteChangesTotal.WithLabelValues(action, source).Inc()
}
