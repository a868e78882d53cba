// Package logging configures the diagnostic logger. Diagnostics always go
// to stderr so they never interleave with routed log lines on stdout.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the run logger. The run ID ties every diagnostic line to one
// invocation, which matters when several captures run side by side.
func New(level, runID string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if runID != "" {
		logger.AddHook(&runIDHook{runID: runID})
	}
	return logger
}

// Discard returns a logger that writes nowhere, for tests and library use.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// runIDHook stamps the run ID on every entry.
type runIDHook struct {
	runID string
}

func (h *runIDHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *runIDHook) Fire(entry *logrus.Entry) error {
	entry.Data["run_id"] = h.runID
	return nil
}
