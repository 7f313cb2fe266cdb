package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	provisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_provisions_total",
			Help: "Total number of provisioning runs",
		},
		[]string{"outcome"}, // success, failed
	)

	provisionStepFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_provision_step_failures_total",
			Help: "Provisioning failures broken down by the step that failed",
		},
		[]string{"step"},
	)

	provisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "agentview_provision_duration_seconds",
			Help: "End-to-end duration of provisioning runs in seconds",
			Buckets: []float64{
				1,
				2.5,
				5,
				10,
				30,
				60,
				120,
			},
		},
	)

	variantSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_variant_syncs_total",
			Help: "Total number of variant pushes to the edge store",
		},
		[]string{"outcome"}, // success, failed
	)

	teardownsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_teardowns_total",
			Help: "Total number of teardown runs",
		},
		[]string{"outcome"}, // clean, partial
	)

	probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentview_health_probes_total",
			Help: "Total number of post-deploy health probes",
		},
		[]string{"outcome"}, // ok, no_marker, dns_error, http_error
	)
)
