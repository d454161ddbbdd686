package ticket

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the ticket service.
type Metrics struct {
	CreatedTotal       *prometheus.CounterVec
	UpdatedTotal       prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns ticket metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_tickets_created_total",
			Help: "Tickets created, by category, priority, and label source.",
		}, []string{"category", "priority", "source"}),
		UpdatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sift_tickets_updated_total",
			Help: "Successful ticket updates.",
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_ticket_notifications_total",
			Help: "High-priority ticket notifications, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.CreatedTotal,
		m.UpdatedTotal,
		m.NotificationsTotal,
	)

	return m
}
