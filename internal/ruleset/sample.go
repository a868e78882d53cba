package ruleset

import (
	"fmt"
	"os"
)

// SampleIgnoreFile is the commented starter ignore file written by
// `logsift init`.
const SampleIgnoreFile = `# .logcatignore - Define patterns to hide from logcat output
#
# Supported rule types:
#   TAG:TagName           - Ignore all lines with this tag
#   LEVEL:V               - Ignore all lines with this level (V/D/I/W/E)
#   TAGLEVEL:TagName:V    - Ignore lines with this tag AND level
#   PATTERN:regex         - Ignore lines where message matches regex
#   LINEPATTERN:regex     - Ignore lines where full line matches regex

# Ignore verbose and debug logs by default
LEVEL:V
LEVEL:D

# Common noisy system tags
TAG:chatty
TAG:ViewRootImpl
TAG:InputMethodManager
TAG:HwRemoteInputMethodManager

# Ignore GC messages
PATTERN:^(Concurrent|Background|Explicit) (young|partial|sticky|full) (GC|concurrent)

# Ignore common framework noise
TAG:ActivityThread
TAGLEVEL:ActivityManager:I

# Ignore art/dalvik memory stats
LINEPATTERN:.*\bART\b.*\b(GC|alloc|free)\b.*
`

// WriteSample writes the sample ignore file to path. It refuses to
// overwrite an existing file and reports whether a file was created.
func WriteSample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(SampleIgnoreFile), 0644); err != nil {
		return false, fmt.Errorf("write sample ignore file: %w", err)
	}
	return true, nil
}
