package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking and availability counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	BookingsAdmitted     prometheus.Counter
	BookingsRejected     *prometheus.CounterVec
	AvailabilityRequests *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsAdmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_admitted_total",
			Help:      "Total number of accepted bookings",
		}),
		BookingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Total number of rejected booking submissions",
		}, []string{"reason"}),
		AvailabilityRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_requests_total",
			Help:      "Total number of availability computations",
		}, []string{"version"}),
	}
}

func (m *Metrics) Admitted() {
	if m == nil {
		return
	}
	m.BookingsAdmitted.Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.BookingsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Availability(version string) {
	if m == nil {
		return
	}
	m.AvailabilityRequests.WithLabelValues(version).Inc()
}
