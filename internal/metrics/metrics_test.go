package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := NewMetrics("portal", prometheus.NewRegistry())

	m.Admitted()
	m.Admitted()
	m.Rejected("conflict")
	m.Availability("v2")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsAdmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsRejected.WithLabelValues("conflict")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BookingsRejected.WithLabelValues("validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AvailabilityRequests.WithLabelValues("v2")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Admitted()
		m.Rejected("conflict")
		m.Availability("v1")
	})
}
