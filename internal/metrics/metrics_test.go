package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tour-allocation/internal/domain"
)

func TestObserveAssign(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAssign(domain.KindRoom, nil)
	m.ObserveAssign(domain.KindRoom, fmt.Errorf("svc: %w", domain.ErrContainerFull))
	m.ObserveAssign(domain.KindVehicle, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.assignments.WithLabelValues("room", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.assignments.WithLabelValues("room", "container_full")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.assignments.WithLabelValues("vehicle", "ok")))
}

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/tours/{tourId}", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "/tours/{tourId}", 200, 7*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/tours/{tourId}", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAssign(domain.KindRoom, nil)
		m.ObserveRequest("GET", "/", 200, time.Second)
		m.IncReplacement("regenerate")
		m.IncRosterOp("move")
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "already_assigned", Outcome(domain.ErrAlreadyAssigned))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("x: %w", domain.ErrNotFound)))
	assert.Equal(t, "invalid", Outcome(domain.ErrValidation))
	assert.Equal(t, "error", Outcome(errors.New("db down")))
}
