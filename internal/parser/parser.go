// Package parser turns raw logcat lines into structured records.
//
// Parsing is pure and total: a line that matches no known format grammar
// comes back as an unparsed record carrying only the raw text. It never
// returns an error.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crimson-sun/logsift/internal/model"
)

// Format selects one logcat output format, or auto-detection.
type Format int

const (
	FormatAuto Format = iota
	FormatThreadtime
	FormatTime
	FormatBrief
	FormatTag
	FormatProcess
)

// ParseFormat converts a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "threadtime":
		return FormatThreadtime, nil
	case "time":
		return FormatTime, nil
	case "brief":
		return FormatBrief, nil
	case "tag":
		return FormatTag, nil
	case "process":
		return FormatProcess, nil
	}
	return FormatAuto, fmt.Errorf("unknown logcat format: %q", s)
}

func (f Format) String() string {
	switch f {
	case FormatThreadtime:
		return "threadtime"
	case FormatTime:
		return "time"
	case FormatBrief:
		return "brief"
	case FormatTag:
		return "tag"
	case FormatProcess:
		return "process"
	}
	return "auto"
}

// Format grammars. Auto-detection tries them in this order, most specific
// first; the first structural match wins.
//
//	threadtime: "MM-DD HH:MM:SS.mmm  PID  TID LEVEL TAG  : message"
//	time:       "MM-DD HH:MM:SS.mmm LEVEL/TAG(PID): message"
//	brief:      "LEVEL/TAG(PID): message"
//	tag:        "LEVEL/TAG: message"
//	process:    "LEVEL(PID) message"
var (
	reThreadtime = regexp.MustCompile(
		`^(\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+)\s+(\d+)\s+([VDIWEFS])\s+(\S+)\s*:\s*(.*)$`)
	reTime = regexp.MustCompile(
		`^(\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+([VDIWEFS])/([^(]+)\(\s*(\d+)\):\s*(.*)$`)
	reBrief = regexp.MustCompile(
		`^([VDIWEFS])/([^(]+)\(\s*(\d+)\):\s*(.*)$`)
	reTag = regexp.MustCompile(
		`^([VDIWEFS])/([^:]+):\s*(.*)$`)
	reProcess = regexp.MustCompile(
		`^([VDIWEFS])\(\s*(\d+)\)\s*(.*)$`)
)

var autoOrder = []Format{FormatThreadtime, FormatTime, FormatBrief, FormatTag, FormatProcess}

// Parse parses a line with auto-detection.
func Parse(line string) model.LogRecord {
	return ParseAs(line, FormatAuto)
}

// ParseAs parses a line as the given format. FormatAuto tries each grammar
// in priority order. Trailing CR/LF is stripped before matching; the
// stripped text is what Raw preserves.
func ParseAs(line string, f Format) model.LogRecord {
	line = strings.TrimRight(line, "\r\n")

	if f == FormatAuto {
		for _, candidate := range autoOrder {
			if rec, ok := match(line, candidate); ok {
				return rec
			}
		}
		return model.LogRecord{Raw: line}
	}

	if rec, ok := match(line, f); ok {
		return rec
	}
	return model.LogRecord{Raw: line}
}

func match(line string, f Format) (model.LogRecord, bool) {
	switch f {
	case FormatThreadtime:
		if m := reThreadtime.FindStringSubmatch(line); m != nil {
			return build(line, m[1], m[2], m[3], m[4], m[5], m[6]), true
		}
	case FormatTime:
		if m := reTime.FindStringSubmatch(line); m != nil {
			return build(line, m[1], m[4], "", m[2], m[3], m[5]), true
		}
	case FormatBrief:
		if m := reBrief.FindStringSubmatch(line); m != nil {
			return build(line, "", m[3], "", m[1], m[2], m[4]), true
		}
	case FormatTag:
		if m := reTag.FindStringSubmatch(line); m != nil {
			return build(line, "", "", "", m[1], m[2], m[3]), true
		}
	case FormatProcess:
		if m := reProcess.FindStringSubmatch(line); m != nil {
			return build(line, "", m[2], "", m[1], "", m[3]), true
		}
	}
	return model.LogRecord{}, false
}

func build(raw, ts, pid, tid, level, tag, message string) model.LogRecord {
	lvl, err := model.ParseLevel(level)
	if err != nil {
		lvl = model.LevelUnknown
	}
	return model.LogRecord{
		Timestamp: ts,
		PID:       atoi(pid),
		TID:       atoi(tid),
		Level:     lvl,
		Tag:       strings.TrimSpace(tag),
		Message:   message,
		Raw:       raw,
		Parsed:    true,
	}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
