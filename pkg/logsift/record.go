package logsift

// Record is the parsed view of one logcat line.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Record struct {
	Timestamp string `json:"timestamp,omitempty"` // as printed by logcat, format dependent
	PID       int    `json:"pid,omitempty"`
	TID       int    `json:"tid,omitempty"`
	Level     string `json:"level,omitempty"` // V, D, I, W, E, F, S; "?" when unknown
	Tag       string `json:"tag,omitempty"`
	Message   string `json:"message,omitempty"`
	Raw       string `json:"raw"`    // original line, always preserved
	Parsed    bool   `json:"parsed"` // false when no format grammar matched
}

// Route is the classification outcome for one line.
type Route string

const (
	RouteInScope Route = "in-scope"
	RouteIgnored Route = "ignored"
	RouteNoise   Route = "noise"
)

// Decision pairs a record with its route and what produced it.
type Decision struct {
	Record       Record `json:"record"`
	Route        Route  `json:"route"`
	MatchedRule  string `json:"matched_rule,omitempty"`  // rule identity, empty when no rule fired
	MatchedScope string `json:"matched_scope,omitempty"` // scope entry that protected the record
	Dropped      bool   `json:"dropped,omitempty"`       // vetoed by a post-hook
}
