package model

import "fmt"

// Level is an Android logcat priority.
type Level int

// Priorities in ascending severity order. LevelUnknown sorts below all of
// them and never matches a level-based ignore rule.
const (
	LevelUnknown Level = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
	LevelSilent
)

// ParseLevel converts a single logcat priority character (V, D, I, W, E, F,
// S) to a Level. The comparison is case-sensitive.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "V":
		return LevelVerbose, nil
	case "D":
		return LevelDebug, nil
	case "I":
		return LevelInfo, nil
	case "W":
		return LevelWarning, nil
	case "E":
		return LevelError, nil
	case "F":
		return LevelFatal, nil
	case "S":
		return LevelSilent, nil
	}
	return LevelUnknown, fmt.Errorf("unknown log level: %q", s)
}

// String returns the logcat priority character, or "?" for LevelUnknown.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "V"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarning:
		return "W"
	case LevelError:
		return "E"
	case LevelFatal:
		return "F"
	case LevelSilent:
		return "S"
	}
	return "?"
}

// LogRecord is one parsed logcat line.
//
// A record is either fully parsed (Parsed=true, structural fields derived
// from Raw by exactly one format grammar) or unparsed (Parsed=false) with
// only Raw populated. No partial parses are ever produced.
type LogRecord struct {
	Timestamp string // wall-clock text as captured; empty for formats without one
	PID       int    // 0 when the format carries no process id
	TID       int    // 0 when the format carries no thread id
	Level     Level
	Tag       string
	Message   string
	Raw       string // original line, always preserved
	Parsed    bool
}
