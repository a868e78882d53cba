// Package ruleset loads and evaluates ignore directives.
//
// An ignore file is UTF-8 text with one directive per line. Blank lines and
// lines starting with # are skipped. Five directive kinds exist:
//
//	TAG:<exact tag>
//	LEVEL:<V|D|I|W|E|F|S>
//	TAGLEVEL:<exact tag>:<level>
//	PATTERN:<regex>        (tested against the message)
//	LINEPATTERN:<regex>    (tested against the full raw line)
//
// Rules keep their file order; evaluation returns the first match. All
// regexes are compiled at load time, so a malformed pattern is a load
// error, never a per-line one.
package ruleset

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/crimson-sun/logsift/internal/model"
)

// ParseError reports a malformed directive with its line number.
type ParseError struct {
	Line    int
	Content string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s (content: %q)", e.Line, e.Msg, e.Content)
}

// RuleSet holds compiled ignore rules in file order.
type RuleSet struct {
	rules []model.Rule
}

// Match returns the first rule matching the record, or nil.
func (s *RuleSet) Match(rec model.LogRecord) model.Rule {
	if s == nil {
		return nil
	}
	for _, r := range s.rules {
		if r.Matches(rec) {
			return r
		}
	}
	return nil
}

// Rules returns the compiled rules in file order.
func (s *RuleSet) Rules() []model.Rule {
	if s == nil {
		return nil
	}
	return s.rules
}

// Len returns the number of compiled rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Parse compiles ignore-file content into a RuleSet.
func Parse(content string) (*RuleSet, error) {
	set := &RuleSet{}
	for i, line := range strings.Split(content, "\n") {
		rule, err := parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if rule != nil {
			set.rules = append(set.rules, rule)
		}
	}
	return set, nil
}

// LoadFile reads and compiles an ignore file from disk.
func LoadFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ignore file: %w", err)
	}
	return Parse(string(data))
}

// parseLine compiles one directive. Blank lines and comments yield nil, nil.
func parseLine(line string, lineNo int) (model.Rule, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	kind, value, found := strings.Cut(trimmed, ":")
	if !found {
		return nil, &ParseError{lineNo, trimmed, "invalid rule format, expected TYPE:value"}
	}
	kind = strings.ToUpper(strings.TrimSpace(kind))
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, &ParseError{lineNo, trimmed, "empty value for rule type " + kind}
	}

	id := directive{line: lineNo, text: trimmed}
	switch kind {
	case "TAG":
		return &TagRule{directive: id, Tag: value}, nil
	case "LEVEL":
		lvl, err := model.ParseLevel(value)
		if err != nil {
			return nil, &ParseError{lineNo, trimmed, err.Error()}
		}
		return &LevelRule{directive: id, Level: lvl}, nil
	case "TAGLEVEL":
		tag, levelStr, found := strings.Cut(value, ":")
		if !found || strings.Contains(levelStr, ":") {
			return nil, &ParseError{lineNo, trimmed, "TAGLEVEL rule requires format TAGLEVEL:TagName:Level"}
		}
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, &ParseError{lineNo, trimmed, "TAGLEVEL rule requires a tag name"}
		}
		lvl, err := model.ParseLevel(strings.TrimSpace(levelStr))
		if err != nil {
			return nil, &ParseError{lineNo, trimmed, err.Error()}
		}
		return &TagLevelRule{directive: id, Tag: tag, Level: lvl}, nil
	case "PATTERN":
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, &ParseError{lineNo, trimmed, "invalid regex pattern: " + err.Error()}
		}
		return &PatternRule{directive: id, Pattern: re}, nil
	case "LINEPATTERN":
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, &ParseError{lineNo, trimmed, "invalid regex pattern: " + err.Error()}
		}
		return &LinePatternRule{directive: id, Pattern: re}, nil
	}
	return nil, &ParseError{lineNo, trimmed,
		"unknown rule type: " + kind + ", expected TAG, LEVEL, TAGLEVEL, PATTERN, or LINEPATTERN"}
}
