package ruleset

import (
	"fmt"
	"regexp"

	"github.com/crimson-sun/logsift/internal/model"
)

// directive carries the identity shared by every rule kind: the source line
// number and the directive text exactly as authored. Together they key the
// rule in run statistics.
type directive struct {
	line int
	text string
}

func (d directive) Key() string {
	return fmt.Sprintf("%d:%s", d.line, d.text)
}

// TagRule matches parsed records with an exactly equal tag.
type TagRule struct {
	directive
	Tag string
}

func (r *TagRule) Matches(rec model.LogRecord) bool {
	return rec.Parsed && rec.Tag == r.Tag
}

// LevelRule matches parsed records at exactly its level. This is a
// deliberate departure from threshold filtering: LEVEL:V hides verbose
// lines only, not everything below some cutoff. Unknown levels never match.
type LevelRule struct {
	directive
	Level model.Level
}

func (r *LevelRule) Matches(rec model.LogRecord) bool {
	return rec.Parsed && rec.Level != model.LevelUnknown && rec.Level == r.Level
}

// TagLevelRule matches parsed records carrying both the tag and the exact level.
type TagLevelRule struct {
	directive
	Tag   string
	Level model.Level
}

func (r *TagLevelRule) Matches(rec model.LogRecord) bool {
	return rec.Parsed && rec.Tag == r.Tag &&
		rec.Level != model.LevelUnknown && rec.Level == r.Level
}

// PatternRule matches parsed records whose message contains the pattern.
type PatternRule struct {
	directive
	Pattern *regexp.Regexp
}

func (r *PatternRule) Matches(rec model.LogRecord) bool {
	return rec.Parsed && r.Pattern.MatchString(rec.Message)
}

// LinePatternRule matches the full raw line, so it applies to unparsed
// records as well.
type LinePatternRule struct {
	directive
	Pattern *regexp.Regexp
}

func (r *LinePatternRule) Matches(rec model.LogRecord) bool {
	return r.Pattern.MatchString(rec.Raw)
}
