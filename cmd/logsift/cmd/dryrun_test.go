package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDryRunStatsText(t *testing.T) {
	dir := t.TempDir()
	ignore := writeFixture(t, dir, "ignore", "LEVEL:V\nTAG:chatty\n")
	scopeFile := writeFixture(t, dir, "scope", "MyApp\n")
	input := writeFixture(t, dir, "capture.log",
		"D/MyApp: starting\nV/other: spam\nI/chatty: noise tag\nW/frame: kept\nnot a logcat line\n")

	out, err := execute(t,
		"dry-run", "--input", input, "--stats", "--report", "text",
		"--ignore-file", ignore, "--scope-file", scopeFile)
	if err != nil {
		t.Fatalf("Execute: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Total lines: 5 (parsed 4, unparsed 1)",
		"in-scope: 1",
		"ignored:  2",
		"noise:    2",
		"Top matched rules:",
		"1:LEVEL:V",
		"2:TAG:chatty",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestDryRunStatsJSON(t *testing.T) {
	dir := t.TempDir()
	ignore := writeFixture(t, dir, "ignore", "LEVEL:D\n")
	scopeFile := writeFixture(t, dir, "scope", "MyApp\n")
	input := writeFixture(t, dir, "capture.log", "D/MyApp: kept\nD/other: dropped\n")

	out, err := execute(t,
		"dry-run", "--input", input, "--stats", "--report", "json",
		"--ignore-file", ignore, "--scope-file", scopeFile)
	if err != nil {
		t.Fatalf("Execute: %v\n%s", err, out)
	}

	var rep struct {
		Total  int            `json:"total"`
		Routes map[string]int `json:"routes"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, out)
	}
	if rep.Total != 2 || rep.Routes["in-scope"] != 1 || rep.Routes["ignored"] != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestDryRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	ignore := writeFixture(t, dir, "ignore", "")
	scopeFile := writeFixture(t, dir, "scope", "")

	out, err := execute(t,
		"dry-run", "--input", filepath.Join(dir, "no-such.log"), "--stats",
		"--ignore-file", ignore, "--scope-file", scopeFile)
	if err == nil {
		t.Fatalf("expected error for missing input, got output:\n%s", out)
	}
}

func TestDryRunMalformedIgnoreFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	ignore := writeFixture(t, dir, "ignore", "LEVEL:Q\n")
	scopeFile := writeFixture(t, dir, "scope", "")
	input := writeFixture(t, dir, "capture.log", "D/a: x\n")

	_, err := execute(t,
		"dry-run", "--input", input, "--stats",
		"--ignore-file", ignore, "--scope-file", scopeFile)
	if err == nil {
		t.Fatal("expected load error for malformed ignore file")
	}
}

func TestInitWritesSamples(t *testing.T) {
	dir := t.TempDir()
	ignore := filepath.Join(dir, ".logcatignore")
	scopeFile := filepath.Join(dir, ".logcatscope")

	out, err := execute(t, "init", "--ignore-file", ignore, "--scope-file", scopeFile)
	if err != nil {
		t.Fatalf("Execute: %v\n%s", err, out)
	}
	for _, path := range []string{ignore, scopeFile} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}

	// A second run without --force leaves the files alone.
	out, err = execute(t, "init", "--ignore-file", ignore, "--scope-file", scopeFile)
	if err != nil {
		t.Fatalf("Execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "already exists") {
		t.Fatalf("expected skip notice, got:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "logsift version") {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}
