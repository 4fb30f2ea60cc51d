package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Factory = (*prometheusFactory)(nil)

type prometheusFactory struct {
	registry     *promRegistry
	http         *httpMetrics
	reassignment *reassignmentMetrics
	downstream   *downstreamMetrics
	publisher    *publisherMetrics
}

// NewFactory builds all collectors on a private registry, so several
// factories can coexist in one process (tests).
func NewFactory() Factory {
	registry := newPromRegistry()

	return &prometheusFactory{
		registry:     registry,
		http:         newHTTPMetrics(registry),
		reassignment: newReassignmentMetrics(registry),
		downstream:   newDownstreamMetrics(registry),
		publisher:    newPublisherMetrics(registry),
	}
}

func (f *prometheusFactory) HTTP() HTTP {
	return f.http
}

func (f *prometheusFactory) Reassignment() Reassignment {
	return f.reassignment
}

func (f *prometheusFactory) Downstream() Downstream {
	return f.downstream
}

func (f *prometheusFactory) Publisher() Publisher {
	return f.publisher
}

func (f *prometheusFactory) Handler() http.Handler {
	return promhttp.HandlerFor(f.registry.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})
}

type promRegistry struct {
	registry *prometheus.Registry
}

func newPromRegistry() *promRegistry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &promRegistry{registry: reg}
}
