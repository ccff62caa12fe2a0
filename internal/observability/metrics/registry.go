// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track request patterns and latency.
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets stretch to 60s because the generation routes
	// wait on model APIs.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight is the number of requests being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPResponseSize measures response body size in bytes.
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// RateLimitedTotal counts requests rejected with 429.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the per-IP rate limiter",
		},
		[]string{"path"},
	)
)

// Upstream metrics track the single call each handler makes to its provider.
var (
	// UpstreamRequestsTotal counts upstream calls by provider, operation and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"provider", "operation", "outcome"},
	)

	// UpstreamDuration measures upstream call latency.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "operation"},
	)
)

// Business metrics.
var (
	// SubscriptionsTotal counts newsletter sign-ups by result (new, existing, invalid, error).
	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_subscriptions_total",
			Help: "Total number of newsletter subscription attempts",
		},
		[]string{"result"},
	)

	// NewsWritesTotal counts admin writes on news posts by operation and result.
	NewsWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_writes_total",
			Help: "Total number of news post writes",
		},
		[]string{"operation", "result"},
	)
)
