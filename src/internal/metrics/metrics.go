// FILE: faultline/src/internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsEmitted tracks events accepted by the router per severity
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_events_emitted_total",
			Help: "Total number of log events routed",
		},
		[]string{"level"},
	)

	// SinkWrites tracks records written per sink
	SinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_sink_writes_total",
			Help: "Total number of records written by a sink",
		},
		[]string{"sink"},
	)

	// SinkFailures tracks write failures handed to the fallback reporter
	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_sink_failures_total",
			Help: "Total number of sink write failures",
		},
		[]string{"sink"},
	)

	// Rotations tracks size-based file rotations
	Rotations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_rotations_total",
			Help: "Total number of log file rotations",
		},
		[]string{"path"},
	)

	// RetryAttempts tracks attempts made by the retry executor
	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_retry_attempts_total",
			Help: "Total number of retry executor attempts",
		},
		[]string{"operation", "outcome"},
	)

	// ErrorsRecorded tracks aggregator records per kind and severity
	ErrorsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_errors_recorded_total",
			Help: "Total number of errors recorded by the aggregator",
		},
		[]string{"kind", "level"},
	)

	// OperationDuration tracks scoped operation latency
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faultline_operation_duration_seconds",
			Help:    "Scoped operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
)
