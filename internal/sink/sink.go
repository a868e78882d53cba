// Package sink provides the byte destinations routed lines are written to.
package sink

import (
	"os"

	"github.com/crimson-sun/logsift/internal/model"
)

// Sink receives routed records and writes their raw text verbatim, one
// line per record. Sinks are opaque to the router; it neither knows nor
// cares whether bytes land on a terminal, in a file, or nowhere.
type Sink interface {
	Write(rec model.LogRecord) error
	Close() error
}

// Reserved target names understood by Open. Anything else is a file path.
const (
	TargetStdout  = "stdout"
	TargetStderr  = "stderr"
	TargetDiscard = "discard"
)

// Open binds a target name to a sink. colored applies only to the stdout
// and stderr targets; files always receive plain bytes.
func Open(target string, colored bool) (Sink, error) {
	switch target {
	case TargetStdout:
		return NewWriter(os.Stdout, colored), nil
	case TargetStderr:
		return NewWriter(os.Stderr, colored), nil
	case TargetDiscard, "/dev/null":
		return Discard{}, nil
	}
	return NewFile(target)
}

// Discard swallows every record. It backs the default binding for the
// ignored route.
type Discard struct{}

func (Discard) Write(model.LogRecord) error { return nil }
func (Discard) Close() error                { return nil }
