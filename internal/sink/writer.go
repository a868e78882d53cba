package sink

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/crimson-sun/logsift/internal/model"
)

// Writer emits records to an io.Writer, unbuffered so a live tail shows
// lines as they arrive. With coloring enabled, parsed records are styled
// by level; unparsed records and unknown levels stay plain.
type Writer struct {
	w       io.Writer
	colored bool
}

// NewWriter creates a Writer. Close is a no-op: the Writer does not own
// the underlying stream.
func NewWriter(w io.Writer, colored bool) *Writer {
	return &Writer{w: w, colored: colored}
}

var levelColors = map[model.Level]*color.Color{
	model.LevelVerbose: color.New(color.Faint),
	model.LevelDebug:   color.New(color.FgBlue),
	model.LevelInfo:    color.New(color.FgGreen),
	model.LevelWarning: color.New(color.FgYellow),
	model.LevelError:   color.New(color.FgRed),
	model.LevelFatal:   color.New(color.FgRed, color.Bold),
	model.LevelSilent:  color.New(color.Faint),
}

func (s *Writer) Write(rec model.LogRecord) error {
	if s.colored && rec.Parsed {
		if c, ok := levelColors[rec.Level]; ok {
			if _, err := c.Fprintln(s.w, rec.Raw); err != nil {
				return fmt.Errorf("sink write: %w", err)
			}
			return nil
		}
	}
	if _, err := io.WriteString(s.w, rec.Raw+"\n"); err != nil {
		return fmt.Errorf("sink write: %w", err)
	}
	return nil
}

func (s *Writer) Close() error { return nil }
