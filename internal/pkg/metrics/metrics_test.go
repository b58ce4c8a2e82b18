package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.BookingOperationsTotal.WithLabelValues("create", "success").Inc()
	m.BookingOperationsTotal.WithLabelValues("create", "success").Inc()
	m.BookingOperationsTotal.WithLabelValues("pay", "failed").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.BookingOperationsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.BookingOperationsTotal.WithLabelValues("pay", "failed")))
}

func TestMetrics_CompensationFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CompensationFailuresTotal.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CompensationFailuresTotal))
}

func TestMetrics_SeatOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.SeatOperationsTotal.WithLabelValues("reserve", "ok").Inc()
	m.SeatOperationsTotal.WithLabelValues("release", "double_release").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.SeatOperationsTotal.WithLabelValues("reserve", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.SeatOperationsTotal.WithLabelValues("release", "double_release")))
}

func TestNewWithRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() {
		NewWithRegistry(reg)
	})
}
