// Package pipeline connects a line source to the router and drives the
// per-line processing loop.
package pipeline

import (
	"context"
	"fmt"

	"github.com/crimson-sun/logsift/internal/router"
	"github.com/crimson-sun/logsift/internal/source"
)

// Pipeline feeds lines from a source through a router until the source
// ends or the context is cancelled.
type Pipeline struct {
	source source.Source
	router *router.Router
}

// New creates a Pipeline from the given components.
func New(src source.Source, rt *router.Router) *Pipeline {
	return &Pipeline{source: src, router: rt}
}

// Run streams the source to completion. For a live source that never ends
// on its own, this blocks until cancellation; for a file source it returns
// once the file is exhausted. Cancellation is reported as ctx.Err() so the
// caller can tell a clean shutdown from a source failure.
func (p *Pipeline) Run(ctx context.Context) error {
	ch, err := p.source.Lines(ctx)
	if err != nil {
		return fmt.Errorf("pipeline start: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-ch:
			if !ok {
				if err := p.source.Err(); err != nil && ctx.Err() == nil {
					return fmt.Errorf("pipeline source: %w", err)
				}
				return ctx.Err()
			}
			if err := p.router.Route(line); err != nil {
				return fmt.Errorf("pipeline route: %w", err)
			}
		}
	}
}

// Close flushes and closes the router's sinks.
func (p *Pipeline) Close() error {
	return p.router.Close()
}
