package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Reassignment = (*reassignmentMetrics)(nil)

type reassignmentMetrics struct {
	outcomes  *prometheus.CounterVec
	shipments *prometheus.CounterVec
	graceWait prometheus.Histogram
}

func newReassignmentMetrics(registry *promRegistry) *reassignmentMetrics {
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reassign_webhook_outcomes_total",
			Help: "Total number of order webhooks by processing outcome",
		},
		[]string{"outcome"},
	)

	shipments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reassign_shipments_total",
			Help: "Total number of shipments handled by result (reassigned, skipped, failed)",
		},
		[]string{"result"},
	)

	graceWait := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reassign_grace_wait_seconds",
			Help:    "Time spent waiting for the fulfillment system to sync an order",
			Buckets: []float64{0, 1, 2.5, 5, 10, 15, 30, 60},
		},
	)

	registry.registry.MustRegister(outcomes, shipments, graceWait)

	return &reassignmentMetrics{
		outcomes:  outcomes,
		shipments: shipments,
		graceWait: graceWait,
	}
}

func (m *reassignmentMetrics) Outcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *reassignmentMetrics) Shipment(result string) {
	m.shipments.WithLabelValues(result).Inc()
}

func (m *reassignmentMetrics) GraceWait(duration time.Duration) {
	m.graceWait.Observe(duration.Seconds())
}
