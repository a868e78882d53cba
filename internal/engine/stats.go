package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/logsift/internal/model"
)

// Stats accumulates exact per-run classification counts. It is owned by a
// single router; every observed decision lands in exactly one route bucket,
// so the route counts always sum to the total.
type Stats struct {
	total    int
	parsed   int
	unparsed int
	byRoute  map[model.Route]int
	byRule   map[string]int
	byTag    map[string]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		byRoute: map[model.Route]int{},
		byRule:  map[string]int{},
		byTag:   map[string]int{},
	}
}

// Observe folds one decision into the counts. Vetoed decisions count the
// same as emitted ones; a veto suppresses output, not accounting.
func (s *Stats) Observe(d model.Decision) {
	s.total++
	if d.Record.Parsed {
		s.parsed++
	} else {
		s.unparsed++
	}
	s.byRoute[d.Route]++
	if d.MatchedRule != nil {
		s.byRule[d.MatchedRule.Key()]++
	}
	if d.Record.Tag != "" {
		s.byTag[d.Record.Tag]++
	}
}

// Total returns the number of observed lines.
func (s *Stats) Total() int { return s.total }

// RouteCount returns the count for one route.
func (s *Stats) RouteCount(r model.Route) int { return s.byRoute[r] }

// RuleCount pairs a rule identity with its match count.
type RuleCount struct {
	Rule  string `json:"rule" yaml:"rule"`
	Count int    `json:"count" yaml:"count"`
}

// Report is the marshal-friendly snapshot of a finished run.
type Report struct {
	Total    int            `json:"total" yaml:"total"`
	Parsed   int            `json:"parsed" yaml:"parsed"`
	Unparsed int            `json:"unparsed" yaml:"unparsed"`
	Routes   map[string]int `json:"routes" yaml:"routes"`
	TopRules []RuleCount    `json:"top_rules,omitempty" yaml:"top_rules,omitempty"`
	Tags     map[string]int `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Report snapshots the counts. Matched rules are ordered by descending
// count, then by rule identity, so rendering is deterministic.
func (s *Stats) Report() Report {
	r := Report{
		Total:    s.total,
		Parsed:   s.parsed,
		Unparsed: s.unparsed,
		Routes:   map[string]int{},
	}
	for route, n := range s.byRoute {
		r.Routes[route.String()] = n
	}
	for key, n := range s.byRule {
		r.TopRules = append(r.TopRules, RuleCount{Rule: key, Count: n})
	}
	sort.Slice(r.TopRules, func(i, j int) bool {
		if r.TopRules[i].Count != r.TopRules[j].Count {
			return r.TopRules[i].Count > r.TopRules[j].Count
		}
		return r.TopRules[i].Rule < r.TopRules[j].Rule
	})
	if len(s.byTag) > 0 {
		r.Tags = make(map[string]int, len(s.byTag))
		for tag, n := range s.byTag {
			r.Tags[tag] = n
		}
	}
	return r
}

// Render formats the report as "text", "json", or "yaml".
func (r Report) Render(format string) (string, error) {
	switch format {
	case "", "text":
		return r.text(), nil
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render report: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("render report: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown report format: %q", format)
}

func (r Report) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total lines: %d (parsed %d, unparsed %d)\n", r.Total, r.Parsed, r.Unparsed)
	for _, route := range []model.Route{model.RouteInScope, model.RouteIgnored, model.RouteNoise} {
		fmt.Fprintf(&b, "  %-9s %d\n", route.String()+":", r.Routes[route.String()])
	}
	if len(r.TopRules) > 0 {
		b.WriteString("Top matched rules:\n")
		for _, rc := range r.TopRules {
			fmt.Fprintf(&b, "  %6d  %s\n", rc.Count, rc.Rule)
		}
	}
	return b.String()
}
