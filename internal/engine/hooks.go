package engine

import "github.com/crimson-sun/logsift/internal/model"

// PreHook runs before classification. It returns the record to continue
// with, possibly rewritten, and an optional forced route. A non-nil route
// short-circuits the remaining pre-hooks and the classifier.
//
// Hooks must be side-effect-safe: the engine invokes each hook exactly
// once per record, and implementations should not rely on being the only
// observer of a line.
type PreHook interface {
	Pre(rec model.LogRecord) (model.LogRecord, *model.Route)
}

// PreHookFunc adapts a function to PreHook.
type PreHookFunc func(rec model.LogRecord) (model.LogRecord, *model.Route)

func (f PreHookFunc) Pre(rec model.LogRecord) (model.LogRecord, *model.Route) {
	return f(rec)
}

// PostHook runs after classification. It may override the route or set
// Drop to veto emission; a veto suppresses the write but the record still
// counts toward its route in statistics. A post-hook must not resurrect a
// dropped record's text.
type PostHook interface {
	Post(d model.Decision) model.Decision
}

// PostHookFunc adapts a function to PostHook.
type PostHookFunc func(d model.Decision) model.Decision

func (f PostHookFunc) Post(d model.Decision) model.Decision {
	return f(d)
}
