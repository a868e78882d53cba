package model

// Route is the classification outcome for one record.
type Route int

const (
	// RouteInScope marks records whose tag is protected by the scope set.
	// Scope protection beats every ignore rule.
	RouteInScope Route = iota
	// RouteIgnored marks records matched by an ignore rule.
	RouteIgnored
	// RouteNoise marks records that are neither protected nor ignored.
	RouteNoise
)

func (r Route) String() string {
	switch r {
	case RouteInScope:
		return "in-scope"
	case RouteIgnored:
		return "ignored"
	case RouteNoise:
		return "noise"
	}
	return "unknown"
}

// Rule is one compiled ignore directive.
type Rule interface {
	// Matches reports whether the rule suppresses the record.
	Matches(rec LogRecord) bool
	// Key identifies the rule for statistics: line number plus the
	// directive text exactly as authored.
	Key() string
}

// Decision is the result of classifying a single record.
//
// MatchedRule and MatchedScope are diagnostic only; once a Decision is
// built they never influence routing.
type Decision struct {
	Record       LogRecord
	Route        Route
	MatchedRule  Rule   // non-nil only when Route is RouteIgnored
	MatchedScope string // the protecting identifier when Route is RouteInScope
	Drop         bool   // set by a post-hook veto; suppresses emission, not accounting
}
