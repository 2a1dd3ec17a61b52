// Package metrics exposes Prometheus counters for the attendance, request and
// activity log engines and for the record store drivers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttendanceEventsTotal counts check-in/check-out attempts by outcome.
	AttendanceEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrm_attendance_events_total",
			Help: "Total number of attendance check-in and check-out attempts",
		},
		[]string{"event", "outcome"},
	)

	// RequestTransitionsTotal counts request lifecycle operations by action.
	RequestTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrm_request_transitions_total",
			Help: "Total number of request form lifecycle operations",
		},
		[]string{"action"},
	)

	// ActivityLogWritesTotal counts audit entries by activity type.
	ActivityLogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrm_activity_log_writes_total",
			Help: "Total number of activity log entries written",
		},
		[]string{"activity_type"},
	)

	// StoreConflictsTotal counts optimistic concurrency losses per collection.
	StoreConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrm_store_conflicts_total",
			Help: "Total number of conditional writes rejected because the record changed",
		},
		[]string{"collection"},
	)

	// CircuitBreakerState reports the REST store breaker state (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hrm_store_circuit_breaker_state",
			Help: "State of the REST record store circuit breaker",
		},
		[]string{"name"},
	)

	// ActiveStreams tracks open activity log SSE connections.
	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hrm_activity_stream_subscribers",
			Help: "Number of open activity log stream connections",
		},
	)
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

func RecordAttendanceEvent(event, outcome string) {
	AttendanceEventsTotal.WithLabelValues(event, outcome).Inc()
}

func RecordRequestTransition(action string) {
	RequestTransitionsTotal.WithLabelValues(action).Inc()
}

func RecordActivityLogWrite(activityType string) {
	ActivityLogWritesTotal.WithLabelValues(activityType).Inc()
}

func RecordStoreConflict(collection string) {
	StoreConflictsTotal.WithLabelValues(collection).Inc()
}

func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
