package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// maxLineSize bounds a single logcat line; anything longer is split by the
// scanner rather than aborting the stream.
const maxLineSize = 1024 * 1024

// ADB streams lines from a live `adb logcat` subprocess.
type ADB struct {
	// Path is the adb binary, "adb" when empty.
	Path string
	// Args are pass-through arguments appended to `adb logcat`.
	Args []string

	mu  sync.Mutex
	err error
}

// Lines starts the subprocess and streams its stdout line by line. The
// channel closes when the process exits or the context is cancelled; an
// unexpected exit is reported by Err.
func (a *ADB) Lines(ctx context.Context) (<-chan string, error) {
	cmd := exec.CommandContext(ctx, a.binary(), append([]string{"logcat"}, a.Args...)...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("adb source: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("adb source: start %s: %w", a.binary(), err)
	}

	ch := make(chan string)
	go func() {
		defer close(ch)

		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				cmd.Wait()
				return
			}
		}

		scanErr := sc.Err()
		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			return // cancelled, not a source failure
		}
		switch {
		case scanErr != nil:
			a.setErr(fmt.Errorf("adb source: read: %w", scanErr))
		case waitErr != nil:
			a.setErr(fmt.Errorf("adb source: %s exited: %w", a.binary(), waitErr))
		default:
			// logcat does not terminate on its own in live mode
			a.setErr(fmt.Errorf("adb source: %s stream ended unexpectedly", a.binary()))
		}
	}()
	return ch, nil
}

func (a *ADB) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *ADB) setErr(err error) {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

func (a *ADB) binary() string {
	if a.Path != "" {
		return a.Path
	}
	return "adb"
}

// ClearBuffer runs `adb logcat -c`, flushing the device-side buffer.
func ClearBuffer(ctx context.Context, adbPath string) error {
	if adbPath == "" {
		adbPath = "adb"
	}
	cmd := exec.CommandContext(ctx, adbPath, "logcat", "-c")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clear logcat buffer: %w (output: %s)", err, out)
	}
	return nil
}
