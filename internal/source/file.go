package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
)

// File streams lines from a captured logcat file. It terminates naturally
// at end-of-input, which is what dry-run mode relies on.
type File struct {
	Path string

	mu  sync.Mutex
	err error
}

func (f *File) Lines(ctx context.Context) (<-chan string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		defer fh.Close()

		sc := bufio.NewScanner(fh)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil && ctx.Err() == nil {
			f.setErr(fmt.Errorf("file source: read %s: %w", f.Path, err))
		}
	}()
	return ch, nil
}

func (f *File) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *File) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}
