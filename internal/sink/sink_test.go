package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/logsift/internal/model"
	"github.com/crimson-sun/logsift/internal/parser"
)

func TestWriterVerbatim(t *testing.T) {
	var b strings.Builder
	s := NewWriter(&b, false)

	rec := parser.Parse("D/MyTag( 1234): Key: value: nested")
	if err := s.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(model.LogRecord{Raw: "not parseable"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "D/MyTag( 1234): Key: value: nested\nnot parseable\n"
	if b.String() != want {
		t.Fatalf("expected %q, got %q", want, b.String())
	}
}

func TestWriterColoredKeepsRawText(t *testing.T) {
	var b strings.Builder
	s := NewWriter(&b, true)

	if err := s.Write(parser.Parse("E/Crash: boom")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Color codes may wrap the line (depending on the NO_COLOR/TTY state
	// the color package detects), but the raw text must survive intact.
	if !strings.Contains(b.String(), "E/Crash: boom") {
		t.Fatalf("raw text missing from colored output: %q", b.String())
	}
}

func TestFileSinkAppendsAndFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.log")

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	for _, line := range []string{"first", "second"} {
		if err := s.Write(model.LogRecord{Raw: line}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Fatalf("unexpected file content: %q", data)
	}

	// Reopening appends rather than truncating.
	s, err = NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := s.Write(model.LogRecord{Raw: "third"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "first\nsecond\nthird\n" {
		t.Fatalf("expected append, got %q", data)
	}
}

func TestFileSinkRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.log")

	s, err := NewFile(path, WithMaxSize(12), WithBufSize(1))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := s.Write(model.LogRecord{Raw: "0123456789"}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	var d Discard
	if err := d.Write(model.LogRecord{Raw: "anything"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenTargets(t *testing.T) {
	for _, target := range []string{"stdout", "stderr"} {
		s, err := Open(target, false)
		if err != nil {
			t.Fatalf("Open(%q): %v", target, err)
		}
		if _, ok := s.(*Writer); !ok {
			t.Fatalf("Open(%q): expected *Writer, got %T", target, s)
		}
	}
	for _, target := range []string{"discard", "/dev/null"} {
		s, err := Open(target, false)
		if err != nil {
			t.Fatalf("Open(%q): %v", target, err)
		}
		if _, ok := s.(Discard); !ok {
			t.Fatalf("Open(%q): expected Discard, got %T", target, s)
		}
	}

	path := filepath.Join(t.TempDir(), "out.log")
	s, err := Open(path, false)
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("expected *File, got %T", s)
	}
	s.Close()
}
