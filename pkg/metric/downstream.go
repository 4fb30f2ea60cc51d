package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Downstream = (*downstreamMetrics)(nil)

type downstreamMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

func newDownstreamMetrics(registry *promRegistry) *downstreamMetrics {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fulfillment_call_duration_seconds",
			Help:    "Duration of fulfillment GraphQL calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"operation"},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_call_failures_total",
			Help: "Total number of failed fulfillment calls by reason",
		},
		[]string{"operation", "reason"},
	)

	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_call_retries_total",
			Help: "Total number of retried fulfillment calls",
		},
		[]string{"operation"},
	)

	registry.registry.MustRegister(duration, failures, retries)

	return &downstreamMetrics{
		duration: duration,
		failures: failures,
		retries:  retries,
	}
}

func (m *downstreamMetrics) ObserveCall(operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *downstreamMetrics) CallFailed(operation string, reason string) {
	m.failures.WithLabelValues(operation, reason).Inc()
}

func (m *downstreamMetrics) Retry(operation string) {
	m.retries.WithLabelValues(operation).Inc()
}
