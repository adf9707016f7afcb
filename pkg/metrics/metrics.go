// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// BoundaryCallDuration tracks AI boundary call duration per operation.
	BoundaryCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boundary_call_duration_seconds",
			Help:    "AI boundary call duration in seconds",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"operation", "status"},
	)

	// BoundaryCallsTotal tracks total AI boundary calls per operation.
	BoundaryCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundary_calls_total",
			Help: "Total AI boundary calls",
		},
		[]string{"operation", "status"},
	)

	// CapturesTotal tracks capture attempts by outcome.
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captures_total",
			Help: "Total capture attempts",
		},
		[]string{"outcome"},
	)

	// DeviceAcquisitionsTotal tracks camera acquisition outcomes.
	DeviceAcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_acquisitions_total",
			Help: "Total camera acquisition attempts",
		},
		[]string{"outcome"},
	)

	// TurnsTotal tracks consultant conversation turns appended.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Total conversation turns appended",
		},
		[]string{"role"},
	)

	// ClientStatesActive tracks the number of live per-client app states.
	ClientStatesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "client_states_active",
			Help: "Number of active per-client app states",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordBoundaryCall records metrics for one AI boundary call.
func RecordBoundaryCall(operation, status string, duration float64) {
	BoundaryCallDuration.WithLabelValues(operation, status).Observe(duration)
	BoundaryCallsTotal.WithLabelValues(operation, status).Inc()
}
