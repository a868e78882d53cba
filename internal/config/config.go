// Package config assembles the run configuration from flags, environment
// variables, and an optional config file, layered through viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/crimson-sun/logsift/internal/parser"
	"github.com/crimson-sun/logsift/internal/sink"
)

// Default config filenames looked up in the working directory.
const (
	DefaultIgnoreFile = ".logcatignore"
	DefaultScopeFile  = ".logcatscope"
)

// Config holds everything a single run needs. Values come from viper so
// that flag > env (LOGSIFT_*) > .logsift.yaml layering applies uniformly.
type Config struct {
	IgnoreFile string
	ScopeFile  string
	Format     string
	Color      string // auto, always, never
	LogLevel   string
	ADBPath    string

	// Sink targets per route: stdout, stderr, discard, or a file path.
	InScopeSink string
	IgnoredSink string
	NoiseSink   string

	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string
}

// SetDefaults registers every key's default on v. Flag bindings override
// these, and env/config-file values slot in between.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ignore_file", DefaultIgnoreFile)
	v.SetDefault("scope_file", DefaultScopeFile)
	v.SetDefault("format", "auto")
	v.SetDefault("color", "auto")
	v.SetDefault("log_level", "info")
	v.SetDefault("adb_path", "adb")
	v.SetDefault("in_scope_sink", sink.TargetStdout)
	v.SetDefault("ignored_sink", sink.TargetDiscard)
	v.SetDefault("noise_sink", sink.TargetStdout)
	v.SetDefault("metrics_addr", "")
}

// FromViper reads the layered values into a Config.
func FromViper(v *viper.Viper) Config {
	return Config{
		IgnoreFile:  v.GetString("ignore_file"),
		ScopeFile:   v.GetString("scope_file"),
		Format:      v.GetString("format"),
		Color:       v.GetString("color"),
		LogLevel:    v.GetString("log_level"),
		ADBPath:     v.GetString("adb_path"),
		InScopeSink: v.GetString("in_scope_sink"),
		IgnoredSink: v.GetString("ignored_sink"),
		NoiseSink:   v.GetString("noise_sink"),
		MetricsAddr: v.GetString("metrics_addr"),
	}
}

// Validate rejects values no run could proceed with.
func (c Config) Validate() error {
	if _, err := parser.ParseFormat(c.Format); err != nil {
		return err
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode: %q (want auto, always, or never)", c.Color)
	}
	if c.ADBPath == "" {
		return fmt.Errorf("adb path must not be empty")
	}
	for _, target := range []string{c.InScopeSink, c.IgnoredSink, c.NoiseSink} {
		if target == "" {
			return fmt.Errorf("sink target must not be empty (use %q to suppress a stream)", sink.TargetDiscard)
		}
	}
	return nil
}

// ParsedFormat returns the parser format for the configured name. Call
// Validate first; an invalid name falls back to auto-detection here.
func (c Config) ParsedFormat() parser.Format {
	f, err := parser.ParseFormat(c.Format)
	if err != nil {
		return parser.FormatAuto
	}
	return f
}
