// Package scope loads the protected identifier set.
//
// Two on-disk shapes are accepted. The minimal form is a flat list, one
// protected tag per line, with # comments and blank lines ignored. The
// extended form is TOML, detected by a leading section header:
//
//	[app]
//	package = "com.example.myapp"
//
//	[expected_tags]
//	tags = ["MyApp", "MyAppNetwork"]
//
//	[expected_libs]
//	libs = ["okhttp", "retrofit2"]
//
//	[stacktrace_roots]
//	roots = ["com.example.myapp.", "androidx."]
//
// The extended sections are purely additive: a scope set built from the
// minimal form behaves identically to one built from an extended file that
// only fills expected_tags.
package scope

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/crimson-sun/logsift/internal/model"
)

// ParseError reports malformed scope-file content.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "scope file: " + e.Msg
}

// ScopeSet is the immutable protected identifier set for one run.
type ScopeSet struct {
	appPackage string
	tags       map[string]struct{}
	libs       []string // tag prefixes
	roots      []string // stack-trace root prefixes
}

// Contains reports whether a tag is protected by exact match.
func (s *ScopeSet) Contains(tag string) bool {
	if s == nil || tag == "" {
		return false
	}
	_, ok := s.tags[tag]
	return ok
}

// Protects returns the protecting identifier for a record, if any.
//
// A parsed record is protected when its tag is in the tag set, or when a
// library identifier is a prefix of its tag. An unparsed record is
// protected when rootTag, the tag of the most recent parsed record, starts
// with a configured stack-trace root prefix: that keeps the continuation
// lines of an in-scope trace together even though they carry no tag.
func (s *ScopeSet) Protects(rec model.LogRecord, rootTag string) (string, bool) {
	if s == nil {
		return "", false
	}
	if rec.Parsed {
		if s.Contains(rec.Tag) {
			return rec.Tag, true
		}
		for _, lib := range s.libs {
			if strings.HasPrefix(rec.Tag, lib) {
				return lib, true
			}
		}
		return "", false
	}
	if rootTag == "" {
		return "", false
	}
	for _, root := range s.roots {
		if strings.HasPrefix(rootTag, root) {
			return root, true
		}
	}
	return "", false
}

// AppPackage returns the [app] package name from the extended form, or "".
func (s *ScopeSet) AppPackage() string {
	if s == nil {
		return ""
	}
	return s.appPackage
}

// Empty reports whether the set protects nothing.
func (s *ScopeSet) Empty() bool {
	return s == nil || (len(s.tags) == 0 && len(s.libs) == 0 && len(s.roots) == 0)
}

// Tags returns the protected tags in unspecified order.
func (s *ScopeSet) Tags() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	return out
}

// Parse builds a ScopeSet from file content, detecting the on-disk shape.
func Parse(content string) (*ScopeSet, error) {
	if isExtended(content) {
		return parseExtended(content)
	}
	return parseFlat(content), nil
}

// LoadFile reads and parses a scope file from disk.
func LoadFile(path string) (*ScopeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scope file: %w", err)
	}
	return Parse(string(data))
}

// isExtended reports whether the first significant line opens a TOML section.
func isExtended(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, "[")
	}
	return false
}

func parseFlat(content string) *ScopeSet {
	set := &ScopeSet{tags: map[string]struct{}{}}
	for _, line := range strings.Split(content, "\n") {
		tag := strings.TrimSpace(line)
		if tag == "" || strings.HasPrefix(tag, "#") {
			continue
		}
		set.tags[tag] = struct{}{}
	}
	return set
}

func parseExtended(content string) (*ScopeSet, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, &ParseError{Msg: "invalid TOML: " + err.Error()}
	}

	set := &ScopeSet{
		appPackage: v.GetString("app.package"),
		tags:       map[string]struct{}{},
		libs:       v.GetStringSlice("expected_libs.libs"),
		roots:      v.GetStringSlice("stacktrace_roots.roots"),
	}
	for _, tag := range v.GetStringSlice("expected_tags.tags") {
		if tag = strings.TrimSpace(tag); tag != "" {
			set.tags[tag] = struct{}{}
		}
	}
	return set, nil
}
