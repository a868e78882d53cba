// Package engine classifies log records against the scope and rule sets.
package engine

import (
	"github.com/crimson-sun/logsift/internal/model"
	"github.com/crimson-sun/logsift/internal/ruleset"
	"github.com/crimson-sun/logsift/internal/scope"
)

// Engine routes records with scope-overrides-ignore precedence. The rule
// and scope sets are immutable for the engine's lifetime, so Classify is
// safe to call from multiple goroutines.
type Engine struct {
	rules *ruleset.RuleSet
	scope *scope.ScopeSet
	pre   []PreHook
	post  []PostHook
}

// New creates an Engine. Either set may be nil, which behaves as empty: a
// nil rule set ignores nothing, a nil scope set protects nothing.
func New(rules *ruleset.RuleSet, sc *scope.ScopeSet) *Engine {
	return &Engine{rules: rules, scope: sc}
}

// AddPreHook appends a pre-classification hook. Hooks run in registration
// order; the first one that forces a route skips the rest and the
// classifier itself.
func (e *Engine) AddPreHook(h PreHook) {
	e.pre = append(e.pre, h)
}

// AddPostHook appends a post-classification hook. Hooks run in
// registration order and may override the route or veto emission.
func (e *Engine) AddPostHook(h PostHook) {
	e.post = append(e.post, h)
}

// Classify routes one record. rootTag is the tag of the most recent parsed
// record, used to keep unparsed stack-trace continuation lines attached to
// their in-scope origin.
//
// Precedence is the central guarantee: a scope-protected record is InScope
// before any ignore rule is consulted, so no rule, however broad, can
// suppress it. Otherwise the first matching rule in file order wins;
// records matching nothing are Noise.
func (e *Engine) Classify(rec model.LogRecord, rootTag string) model.Decision {
	for _, h := range e.pre {
		next, forced := h.Pre(rec)
		if forced != nil {
			return e.applyPost(model.Decision{Record: next, Route: *forced})
		}
		rec = next
	}

	if ident, ok := e.scope.Protects(rec, rootTag); ok {
		return e.applyPost(model.Decision{
			Record:       rec,
			Route:        model.RouteInScope,
			MatchedScope: ident,
		})
	}

	if rule := e.rules.Match(rec); rule != nil {
		return e.applyPost(model.Decision{
			Record:      rec,
			Route:       model.RouteIgnored,
			MatchedRule: rule,
		})
	}

	return e.applyPost(model.Decision{Record: rec, Route: model.RouteNoise})
}

func (e *Engine) applyPost(d model.Decision) model.Decision {
	for _, h := range e.post {
		d = h.Post(d)
	}
	return d
}
