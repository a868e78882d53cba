// Package metrics exposes live-mode routing counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/logsift/internal/model"
)

// Metrics holds the per-run counters. A fresh registry per run keeps
// repeated in-process runs (and tests) from colliding on registration.
type Metrics struct {
	registry *prometheus.Registry

	// LinesTotal counts processed lines by route.
	LinesTotal *prometheus.CounterVec
	// UnparsedTotal counts lines no format grammar claimed.
	UnparsedTotal prometheus.Counter
	// RuleHits counts ignore-rule matches by rule identity.
	RuleHits *prometheus.CounterVec
	// Vetoed counts records suppressed by a post-hook veto.
	Vetoed prometheus.Counter
}

// New creates a Metrics set backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		LinesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logsift",
			Name:      "lines_total",
			Help:      "Processed log lines by route.",
		}, []string{"route"}),
		UnparsedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "logsift",
			Name:      "unparsed_lines_total",
			Help:      "Lines that matched no logcat format grammar.",
		}),
		RuleHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logsift",
			Name:      "rule_hits_total",
			Help:      "Ignore rule matches by rule identity.",
		}, []string{"rule"}),
		Vetoed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "logsift",
			Name:      "vetoed_records_total",
			Help:      "Records suppressed by a post-hook veto.",
		}),
	}
}

// Observe folds one routing decision into the counters.
func (m *Metrics) Observe(d model.Decision) {
	m.LinesTotal.WithLabelValues(d.Route.String()).Inc()
	if !d.Record.Parsed {
		m.UnparsedTotal.Inc()
	}
	if d.MatchedRule != nil {
		m.RuleHits.WithLabelValues(d.MatchedRule.Key()).Inc()
	}
	if d.Drop {
		m.Vetoed.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
