package scope

import (
	"fmt"
	"os"
)

// SampleScopeFile is the commented starter scope file written by
// `logsift init`. It uses the extended TOML form.
const SampleScopeFile = `# .logcatscope - Define what is "in scope" for your Android app
#
# Tags listed here are never suppressed, no matter what the ignore
# file says. The file is TOML; a flat one-tag-per-line list (with #
# comments) is also accepted.

[app]
# Your app's package name
package = "com.example.myapp"

# Process names to watch (main process + any background services)
processes = [
    "com.example.myapp",
    "com.example.myapp:worker",
]

[expected_tags]
# Log tags you expect from your app and key dependencies
tags = [
    "MyApp",
    "MyAppNetwork",
    "MyAppDb",
    "ActivityManager",
    "WindowManager",
]

[expected_libs]
# Tag prefixes of libraries whose output counts as yours
libs = [
    "okhttp",
    "retrofit2",
]

[stacktrace_roots]
# Package roots whose stack traces stay protected across continuation lines
roots = [
    "com.example.myapp.",
    "androidx.",
]
`

// WriteSample writes the sample scope file to path. It refuses to
// overwrite an existing file and reports whether a file was created.
func WriteSample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(SampleScopeFile), 0644); err != nil {
		return false, fmt.Errorf("write sample scope file: %w", err)
	}
	return true, nil
}
