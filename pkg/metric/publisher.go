package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Publisher = (*publisherMetrics)(nil)

type publisherMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

func newPublisherMetrics(registry *promRegistry) *publisherMetrics {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outcome_events_published_total",
			Help: "Total number of reassignment outcome events written to Kafka",
		},
		[]string{"topic"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outcome_events_failed_total",
			Help: "Total number of outcome events that could not be written",
		},
		[]string{"topic", "reason"},
	)

	registry.registry.MustRegister(published, failed)

	return &publisherMetrics{
		published: published,
		failed:    failed,
	}
}

func (m *publisherMetrics) EventPublished(topic string) {
	m.published.WithLabelValues(topic).Inc()
}

func (m *publisherMetrics) EventFailed(topic string, reason string) {
	m.failed.WithLabelValues(topic, reason).Inc()
}
