package sink

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/logsift/internal/model"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a File sink.
type Option func(*File)

// WithMaxSize sets the file size (bytes) at which rotation triggers.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(f *File) { f.maxSize = bytes }
}

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(f *File) { f.bufSize = bytes }
}

// File appends raw lines to a file with buffered I/O and optional
// size-based rotation. Close flushes, so a cancelled run never leaves a
// partially buffered line behind.
type File struct {
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	maxSize int64 // 0 = no rotation
	written int64
	bufSize int
}

// NewFile creates a file sink that appends to the given path.
func NewFile(path string, opts ...Option) (*File, error) {
	f := &File{
		path:    path,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.openFile(); err != nil {
		return nil, err
	}
	return f, nil
}

// Write appends the record's raw text as one line.
func (o *File) Write(rec model.LogRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	data := append([]byte(rec.Raw), '\n')

	if o.maxSize > 0 && o.written+int64(len(data)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file sink: rotate: %w", err)
		}
	}

	n, err := o.w.Write(data)
	o.written += int64(n)
	if err != nil {
		return fmt.Errorf("file sink: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *File) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file sink: flush: %w", err)
	}
	return o.f.Close()
}

func (o *File) openFile() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("file sink: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file sink: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	o.written = info.Size()
	return nil
}

// rotate flushes, closes the current file, renames it to {path}.1
// (shifting existing rotated files), and opens a new file.
func (o *File) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	// Shift existing rotated files: .2 → .3, .1 → .2, current → .1
	for i := 9; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", o.path, i)
		to := fmt.Sprintf("%s.%d", o.path, i+1)
		os.Rename(from, to) // file may not exist
	}
	if err := os.Rename(o.path, o.path+".1"); err != nil {
		return err
	}

	o.written = 0
	return o.openFile()
}
