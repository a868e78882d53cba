// Package router applies the parse/classify pipeline per line and writes
// each record to the sink bound to its route.
package router

import (
	"fmt"

	"github.com/crimson-sun/logsift/internal/engine"
	"github.com/crimson-sun/logsift/internal/metrics"
	"github.com/crimson-sun/logsift/internal/model"
	"github.com/crimson-sun/logsift/internal/parser"
	"github.com/crimson-sun/logsift/internal/sink"
)

// Sinks binds each route to a destination. A nil field suppresses output
// for that route (used by stats-only dry runs).
type Sinks struct {
	InScope sink.Sink
	Ignored sink.Sink
	Noise   sink.Sink
}

// Option configures a Router.
type Option func(*Router)

// WithFormat pins the logcat format instead of auto-detecting per line.
func WithFormat(f parser.Format) Option {
	return func(r *Router) { r.format = f }
}

// WithStats collects exact per-run statistics into st.
func WithStats(st *engine.Stats) Option {
	return func(r *Router) { r.stats = st }
}

// WithMetrics publishes routing counters to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// Router is single-goroutine: lines must be fed in arrival order, one at a
// time, which is exactly what the pipeline loop does. The root-tag state
// that protects stack-trace continuation lines depends on that ordering.
type Router struct {
	eng     *engine.Engine
	sinks   Sinks
	format  parser.Format
	stats   *engine.Stats
	metrics *metrics.Metrics
	rootTag string
}

// New creates a Router over an engine and its sink bindings.
func New(eng *engine.Engine, sinks Sinks, opts ...Option) *Router {
	r := &Router{eng: eng, sinks: sinks, format: parser.FormatAuto}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route processes one raw line end to end: parse, classify through the
// hook pipeline, account, and write the raw text verbatim to the route's
// sink. A sink failure is returned as-is and is fatal for the run;
// dropping lines silently would break the every-line-accounted guarantee.
func (r *Router) Route(line string) error {
	rec := parser.ParseAs(line, r.format)

	d := r.eng.Classify(rec, r.rootTag)

	// A parsed record with a tag becomes the new continuation root; a
	// parsed record without one interrupts the sequence. Unparsed lines
	// leave the root alone so a whole trace stays attached.
	if rec.Parsed {
		r.rootTag = rec.Tag
	}

	if r.stats != nil {
		r.stats.Observe(d)
	}
	if r.metrics != nil {
		r.metrics.Observe(d)
	}

	if d.Drop {
		return nil
	}
	dest := r.sinkFor(d.Route)
	if dest == nil {
		return nil
	}
	if err := dest.Write(d.Record); err != nil {
		return fmt.Errorf("route %s: %w", d.Route, err)
	}
	return nil
}

func (r *Router) sinkFor(route model.Route) sink.Sink {
	switch route {
	case model.RouteInScope:
		return r.sinks.InScope
	case model.RouteIgnored:
		return r.sinks.Ignored
	case model.RouteNoise:
		return r.sinks.Noise
	}
	return nil
}

// Close flushes and closes every distinct sink exactly once, even when
// several routes share one destination.
func (r *Router) Close() error {
	seen := map[sink.Sink]bool{}
	var firstErr error
	for _, s := range []sink.Sink{r.sinks.InScope, r.sinks.Ignored, r.sinks.Noise} {
		if s == nil || seen[s] {
			continue
		}
		seen[s] = true
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
