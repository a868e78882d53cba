// Package source supplies raw log lines, either from a live adb subprocess
// or from a captured file.
package source

import "context"

// Source produces raw text lines in arrival order. The channel closes on
// end-of-stream or context cancellation; Err reports why a live source
// stopped, and must only be consulted after the channel closes.
type Source interface {
	Lines(ctx context.Context) (<-chan string, error)
	Err() error
}
