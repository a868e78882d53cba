package engine

import (
	"testing"

	"github.com/crimson-sun/logsift/internal/model"
	"github.com/crimson-sun/logsift/internal/parser"
	"github.com/crimson-sun/logsift/internal/ruleset"
	"github.com/crimson-sun/logsift/internal/scope"
)

func mustRules(t *testing.T, content string) *ruleset.RuleSet {
	t.Helper()
	set, err := ruleset.Parse(content)
	if err != nil {
		t.Fatalf("ruleset.Parse: %v", err)
	}
	return set
}

func mustScope(t *testing.T, content string) *scope.ScopeSet {
	t.Helper()
	set, err := scope.Parse(content)
	if err != nil {
		t.Fatalf("scope.Parse: %v", err)
	}
	return set
}

func TestScopeBeatsEveryRule(t *testing.T) {
	// Rules that would each match the record on their own.
	eng := New(
		mustRules(t, "TAG:MyApp\nLEVEL:D\nTAGLEVEL:MyApp:D\nPATTERN:.*\nLINEPATTERN:.*"),
		mustScope(t, "MyApp\n"),
	)

	d := eng.Classify(parser.Parse("D/MyApp: starting"), "")
	if d.Route != model.RouteInScope {
		t.Fatalf("expected in-scope, got %v", d.Route)
	}
	if d.MatchedScope != "MyApp" {
		t.Fatalf("expected matched scope 'MyApp', got %q", d.MatchedScope)
	}
	if d.MatchedRule != nil {
		t.Fatalf("no rule may be recorded for an in-scope record, got %q", d.MatchedRule.Key())
	}
}

func TestFirstMatchingRuleWins(t *testing.T) {
	eng := New(mustRules(t, "LEVEL:D\nTAG:other\n"), nil)

	d := eng.Classify(parser.Parse("D/other: tick"), "")
	if d.Route != model.RouteIgnored {
		t.Fatalf("expected ignored, got %v", d.Route)
	}
	if d.MatchedRule.Key() != "1:LEVEL:D" {
		t.Fatalf("expected earlier rule to win, got %q", d.MatchedRule.Key())
	}
}

func TestNoiseWhenNothingMatches(t *testing.T) {
	eng := New(mustRules(t, "TAG:chatty"), mustScope(t, "MyApp"))

	d := eng.Classify(parser.Parse("I/Zygote: preloading"), "")
	if d.Route != model.RouteNoise {
		t.Fatalf("expected noise, got %v", d.Route)
	}
	if d.MatchedRule != nil || d.MatchedScope != "" {
		t.Fatalf("noise decisions carry no match metadata: %+v", d)
	}
}

func TestEmptySetsRouteEverythingToNoise(t *testing.T) {
	eng := New(nil, nil)

	for _, line := range []string{
		"D/MyApp: starting",
		"V/chatty: spam",
		"not a logcat line",
	} {
		d := eng.Classify(parser.Parse(line), "")
		if d.Route != model.RouteNoise {
			t.Fatalf("%q: expected noise, got %v", line, d.Route)
		}
	}
}

// The worked scenario: ignore LEVEL:V, LEVEL:D, TAG:chatty with MyApp in
// scope. MyApp's debug line survives, chatty's verbose spam falls to the
// LEVEL:V rule, and other's debug tick falls to LEVEL:D.
func TestScenarioThreeWayRouting(t *testing.T) {
	eng := New(
		mustRules(t, "LEVEL:V\nLEVEL:D\nTAG:chatty"),
		mustScope(t, "MyApp"),
	)

	tests := []struct {
		line      string
		wantRoute model.Route
		wantRule  string
	}{
		{"D/MyApp: starting", model.RouteInScope, ""},
		{"V/chatty: spam", model.RouteIgnored, "1:LEVEL:V"},
		{"D/other: tick", model.RouteIgnored, "2:LEVEL:D"},
	}
	for _, tt := range tests {
		d := eng.Classify(parser.Parse(tt.line), "")
		if d.Route != tt.wantRoute {
			t.Fatalf("%q: expected %v, got %v", tt.line, tt.wantRoute, d.Route)
		}
		if tt.wantRule == "" && d.MatchedRule != nil {
			t.Fatalf("%q: unexpected matched rule %q", tt.line, d.MatchedRule.Key())
		}
		if tt.wantRule != "" && (d.MatchedRule == nil || d.MatchedRule.Key() != tt.wantRule) {
			t.Fatalf("%q: expected rule %q, got %v", tt.line, tt.wantRule, d.MatchedRule)
		}
	}
}

func TestScenarioTagLevel(t *testing.T) {
	eng := New(mustRules(t, "TAGLEVEL:ActivityManager:I"), nil)

	if d := eng.Classify(parser.Parse("I/ActivityManager( 42): foo"), ""); d.Route != model.RouteIgnored {
		t.Fatalf("expected ignored at level I, got %v", d.Route)
	}
	if d := eng.Classify(parser.Parse("W/ActivityManager( 42): foo"), ""); d.Route != model.RouteNoise {
		t.Fatalf("expected noise at level W, got %v", d.Route)
	}
}

func TestUnparsedLineRouting(t *testing.T) {
	eng := New(mustRules(t, "TAG:garbage\nLEVEL:V\nLINEPATTERN:beginning of"), nil)

	// Only LINEPATTERN can claim an unparsed line.
	d := eng.Classify(parser.Parse("--------- beginning of main"), "")
	if d.Route != model.RouteIgnored {
		t.Fatalf("expected ignored, got %v", d.Route)
	}
	if d.MatchedRule.Key() != "3:LINEPATTERN:beginning of" {
		t.Fatalf("unexpected rule %q", d.MatchedRule.Key())
	}

	d = eng.Classify(parser.Parse("some other garbage"), "")
	if d.Route != model.RouteNoise {
		t.Fatalf("expected noise for unmatched unparsed line, got %v", d.Route)
	}
}

func TestContinuationLineProtection(t *testing.T) {
	eng := New(
		mustRules(t, "LINEPATTERN:.*"),
		mustScope(t, "[stacktrace_roots]\nroots = [\"com.example.\"]\n"),
	)

	trace := parser.Parse("	at com.example.app.Main.run(Main.java:10)")
	if trace.Parsed {
		t.Fatal("fixture must be unparsed")
	}

	// With an in-scope root tag the continuation line is protected even
	// though a catch-all LINEPATTERN rule would match it.
	d := eng.Classify(trace, "com.example.app.Main")
	if d.Route != model.RouteInScope {
		t.Fatalf("expected in-scope continuation, got %v", d.Route)
	}
	if d.MatchedScope != "com.example." {
		t.Fatalf("expected root prefix identifier, got %q", d.MatchedScope)
	}

	// Without one it falls through to the rules.
	if d := eng.Classify(trace, ""); d.Route != model.RouteIgnored {
		t.Fatalf("expected ignored without root tag, got %v", d.Route)
	}
}

func TestPreHookTransform(t *testing.T) {
	eng := New(mustRules(t, "TAG:renamed"), nil)
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		if rec.Tag == "original" {
			rec.Tag = "renamed"
		}
		return rec, nil
	}))

	d := eng.Classify(parser.Parse("D/original: hello"), "")
	if d.Route != model.RouteIgnored {
		t.Fatalf("expected rewritten record to hit TAG:renamed, got %v", d.Route)
	}
}

func TestPreHookForcedRouteShortCircuits(t *testing.T) {
	eng := New(mustRules(t, "TAG:MyTag"), nil)

	forced := model.RouteNoise
	var laterCalls int
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		return rec, &forced
	}))
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		laterCalls++
		return rec, nil
	}))

	d := eng.Classify(parser.Parse("D/MyTag: would be ignored"), "")
	if d.Route != model.RouteNoise {
		t.Fatalf("expected forced route, got %v", d.Route)
	}
	if d.MatchedRule != nil {
		t.Fatal("classifier must be skipped on a forced route")
	}
	if laterCalls != 0 {
		t.Fatalf("later pre-hooks must be skipped, got %d calls", laterCalls)
	}
}

func TestPostHookOverrideAndVeto(t *testing.T) {
	eng := New(mustRules(t, "TAG:chatty"), nil)
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		if d.Route == model.RouteIgnored {
			d.Route = model.RouteNoise
		}
		return d
	}))
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		if d.Record.Tag == "secret" {
			d.Drop = true
		}
		return d
	}))

	d := eng.Classify(parser.Parse("V/chatty: spam"), "")
	if d.Route != model.RouteNoise {
		t.Fatalf("expected post-hook override to noise, got %v", d.Route)
	}

	d = eng.Classify(parser.Parse("I/secret: token=abc"), "")
	if !d.Drop {
		t.Fatal("expected veto")
	}
	if d.Route != model.RouteNoise {
		t.Fatalf("veto must not change the computed route, got %v", d.Route)
	}
}

func TestPostHooksRunOnForcedRoutes(t *testing.T) {
	eng := New(nil, nil)
	forced := model.RouteIgnored
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		return rec, &forced
	}))
	var postCalls int
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		postCalls++
		return d
	}))

	eng.Classify(parser.Parse("D/Any: x"), "")
	if postCalls != 1 {
		t.Fatalf("expected post-hooks to run once on forced routes, got %d", postCalls)
	}
}

func TestHooksInvokedOncePerLine(t *testing.T) {
	eng := New(mustRules(t, "LEVEL:V"), mustScope(t, "MyApp"))

	var preCalls, postCalls int
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		preCalls++
		return rec, nil
	}))
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		postCalls++
		return d
	}))

	lines := []string{"D/MyApp: a", "V/chatty: b", "I/other: c", "garbage"}
	for _, line := range lines {
		eng.Classify(parser.Parse(line), "")
	}
	if preCalls != len(lines) || postCalls != len(lines) {
		t.Fatalf("expected %d calls each, got pre=%d post=%d", len(lines), preCalls, postCalls)
	}
}

func TestHookOrderIsRegistrationOrder(t *testing.T) {
	eng := New(nil, nil)
	var order []string
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		order = append(order, "pre1")
		return rec, nil
	}))
	eng.AddPreHook(PreHookFunc(func(rec model.LogRecord) (model.LogRecord, *model.Route) {
		order = append(order, "pre2")
		return rec, nil
	}))
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		order = append(order, "post1")
		return d
	}))
	eng.AddPostHook(PostHookFunc(func(d model.Decision) model.Decision {
		order = append(order, "post2")
		return d
	}))

	eng.Classify(parser.Parse("D/Any: x"), "")
	want := []string{"pre1", "pre2", "post1", "post2"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}
