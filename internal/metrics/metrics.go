package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	DetailsTotal       *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	CompletionsTotal   *prometheus.CounterVec
	CoverLookupsTotal  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_searches_total",
				Help: "Search requests by outcome (ok, degraded)",
			},
			[]string{"outcome"},
		),
		DetailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_book_details_total",
				Help: "Book detail requests by outcome (ok, error)",
			},
			[]string{"outcome"},
		),
		CompletionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "companion_completion_duration_seconds",
				Help:    "Completion request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "variant"},
		),
		CompletionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_completions_total",
				Help: "Completion requests by provider and status",
			},
			[]string{"provider", "status"},
		),
		CoverLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_cover_lookups_total",
				Help: "Cover lookups by outcome (found, placeholder)",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) RecordSearch(outcome string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDetails(outcome string) {
	if m == nil {
		return
	}
	m.DetailsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCompletion(provider, variant string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CompletionDuration.WithLabelValues(provider, variant).Observe(d.Seconds())
	m.CompletionsTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) RecordCoverLookup(found bool) {
	if m == nil {
		return
	}
	outcome := "placeholder"
	if found {
		outcome = "found"
	}
	m.CoverLookupsTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
