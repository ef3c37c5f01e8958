package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the backend's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Mutations counts content mutations by kind, operation and outcome.
	Mutations *prometheus.CounterVec
	// CacheInvalidations counts list-cache invalidations by kind.
	CacheInvalidations *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polycampus",
			Name:      "content_mutations_total",
			Help:      "Content mutations by kind, operation and outcome.",
		}, []string{"kind", "operation", "outcome"}),
		CacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polycampus",
			Name:      "content_cache_invalidations_total",
			Help:      "List cache invalidations by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.Mutations,
		m.CacheInvalidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
