// Package metrics defines the Prometheus collectors of the allocation API.
// All methods are safe on a nil *Metrics so services can be built without
// instrumentation in tests.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	assignments  *prometheus.CounterVec
	replacements *prometheus.CounterVec
	rosterMoves  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg creates
// working but unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tour_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		assignments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_assignments_total",
			Help: "Assignment attempts by container kind and outcome.",
		}, []string{"kind", "outcome"}),
		replacements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_scope_replacements_total",
			Help: "Scope replacements by reason (regenerate, continuation).",
		}, []string{"reason"}),
		rosterMoves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_roster_moves_total",
			Help: "Roster reorders by operation (move, resort, sync).",
		}, []string{"op"}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAssign records the outcome of an assignment attempt.
func (m *Metrics) ObserveAssign(kind domain.Kind, err error) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(string(kind), Outcome(err)).Inc()
}

// IncReplacement counts a committed scope replacement.
func (m *Metrics) IncReplacement(reason string) {
	if m == nil {
		return
	}
	m.replacements.WithLabelValues(reason).Inc()
}

// IncRosterOp counts a committed roster reorder.
func (m *Metrics) IncRosterOp(op string) {
	if m == nil {
		return
	}
	m.rosterMoves.WithLabelValues(op).Inc()
}

// Outcome maps an operation error onto a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrContainerFull):
		return "container_full"
	case errors.Is(err, domain.ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
