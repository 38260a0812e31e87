// Package metrics holds the Prometheus metrics for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitRejected *prometheus.CounterVec

	// Origin policy metrics
	OriginDenied *prometheus.CounterVec

	// Upstream metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamErrors          *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new Metrics instance with a custom registry
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notespy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notespy_http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ActiveRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "notespy_http_requests_active",
				Help: "Number of active HTTP requests",
			},
			[]string{"method", "path"},
		),
		RateLimitRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notespy_ratelimit_rejected_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"class"},
		),
		OriginDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notespy_origin_denied_total",
				Help: "Requests rejected by the origin policy",
			},
			[]string{"path"},
		),
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notespy_upstream_requests_total",
				Help: "Total number of upstream requests",
			},
			[]string{"upstream", "status"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notespy_upstream_request_duration_seconds",
				Help:    "Upstream request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notespy_upstream_errors_total",
				Help: "Upstream failures by kind",
			},
			[]string{"upstream", "kind"},
		),
	}
}
