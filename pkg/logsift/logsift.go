package logsift

import (
	"fmt"
	"sync"

	"github.com/crimson-sun/logsift/internal/engine"
	"github.com/crimson-sun/logsift/internal/model"
	"github.com/crimson-sun/logsift/internal/parser"
	"github.com/crimson-sun/logsift/internal/ruleset"
	"github.com/crimson-sun/logsift/internal/scope"
)

// Sifter classifies logcat lines against an immutable rule and scope set.
// Create once, reuse across lines; feed lines in arrival order when
// stack-trace continuation protection matters.
type Sifter struct {
	eng    *engine.Engine
	format parser.Format

	mu      sync.Mutex
	rootTag string
}

// New builds a Sifter. Load errors (malformed rules or scope, unreadable
// files, unknown format) are fatal here; there is no partial load.
func New(opts ...Option) (*Sifter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	format, err := parser.ParseFormat(o.format)
	if err != nil {
		return nil, fmt.Errorf("logsift: %w", err)
	}

	var rules *ruleset.RuleSet
	switch {
	case o.ignoreFile != "":
		rules, err = ruleset.LoadFile(o.ignoreFile)
	case o.ignoreText != "":
		rules, err = ruleset.Parse(o.ignoreText)
	}
	if err != nil {
		return nil, fmt.Errorf("logsift: %w", err)
	}

	var sc *scope.ScopeSet
	switch {
	case o.scopeFile != "":
		sc, err = scope.LoadFile(o.scopeFile)
	case o.scopeText != "":
		sc, err = scope.Parse(o.scopeText)
	}
	if err != nil {
		return nil, fmt.Errorf("logsift: %w", err)
	}

	eng := engine.New(rules, sc)
	for _, h := range o.preHooks {
		eng.AddPreHook(adaptPreHook(h))
	}
	for _, h := range o.postHooks {
		eng.AddPostHook(adaptPostHook(h))
	}

	return &Sifter{eng: eng, format: format}, nil
}

// Classify parses one line, runs it through the hook pipeline and the
// classifier, and returns the decision. Safe for concurrent use, though
// continuation protection assumes lines arrive in order.
func (s *Sifter) Classify(line string) Decision {
	rec := parser.ParseAs(line, s.format)

	s.mu.Lock()
	d := s.eng.Classify(rec, s.rootTag)
	if rec.Parsed {
		s.rootTag = rec.Tag
	}
	s.mu.Unlock()

	return fromDecision(d)
}

// Reset clears the continuation state, e.g. between replayed captures.
func (s *Sifter) Reset() {
	s.mu.Lock()
	s.rootTag = ""
	s.mu.Unlock()
}

func adaptPreHook(h func(Record) (Record, *Route)) engine.PreHook {
	return engine.PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		pub, forced := h(fromRecord(rec))
		if forced == nil {
			return toRecord(pub), nil
		}
		route := toModelRoute(*forced)
		return toRecord(pub), &route
	})
}

func adaptPostHook(h func(Decision) Decision) engine.PostHook {
	return engine.PostHookFunc(func(d model.Decision) model.Decision {
		pub := h(fromDecision(d))
		d.Route = toModelRoute(pub.Route)
		d.Drop = pub.Dropped
		d.Record = toRecord(pub.Record)
		return d
	})
}

func fromRecord(rec model.LogRecord) Record {
	level := ""
	if rec.Parsed {
		level = rec.Level.String()
	}
	return Record{
		Timestamp: rec.Timestamp,
		PID:       rec.PID,
		TID:       rec.TID,
		Level:     level,
		Tag:       rec.Tag,
		Message:   rec.Message,
		Raw:       rec.Raw,
		Parsed:    rec.Parsed,
	}
}

func toRecord(r Record) model.LogRecord {
	lvl, err := model.ParseLevel(r.Level)
	if err != nil {
		lvl = model.LevelUnknown
	}
	return model.LogRecord{
		Timestamp: r.Timestamp,
		PID:       r.PID,
		TID:       r.TID,
		Level:     lvl,
		Tag:       r.Tag,
		Message:   r.Message,
		Raw:       r.Raw,
		Parsed:    r.Parsed,
	}
}

func fromDecision(d model.Decision) Decision {
	out := Decision{
		Record:       fromRecord(d.Record),
		Route:        Route(d.Route.String()),
		MatchedScope: d.MatchedScope,
		Dropped:      d.Drop,
	}
	if d.MatchedRule != nil {
		out.MatchedRule = d.MatchedRule.Key()
	}
	return out
}

func toModelRoute(r Route) model.Route {
	switch r {
	case RouteInScope:
		return model.RouteInScope
	case RouteIgnored:
		return model.RouteIgnored
	}
	return model.RouteNoise
}
