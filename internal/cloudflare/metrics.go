package cloudflare

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_cloudflare_requests_total",
			Help: "Total number of platform API requests",
		},
		[]string{"operation", "outcome"}, // outcome: ok, api_error, transport_error
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "agentview_cloudflare_request_duration_seconds",
			Help: "Duration of platform API requests in seconds",
			Buckets: []float64{
				0.05,
				0.1,
				0.25,
				0.5,
				1,
				2.5,
				5,
				10,
			},
		},
		[]string{"operation"},
	)

	circuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentview_cloudflare_circuit_breaker_open",
			Help: "Whether the platform API circuit breaker is open (1=open)",
		},
	)
)

// recordRequest records the outcome of one platform API call.
func recordRequest(operation, outcome string, durationSeconds float64) {
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
}
