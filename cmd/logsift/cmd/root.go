// Package cmd implements the logsift command-line interface with cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crimson-sun/logsift/internal/config"
	"github.com/crimson-sun/logsift/internal/engine"
	"github.com/crimson-sun/logsift/internal/logging"
	"github.com/crimson-sun/logsift/internal/ruleset"
	"github.com/crimson-sun/logsift/internal/scope"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "Filter adb logcat output through scope and ignore rules",
	Long: `logsift classifies every logcat line three ways: in-scope (your app's
tags, never suppressed), ignored (matched an ignore rule), or noise
(everything else), and routes each stream to its own destination.

Examples:
  # Stream from a connected device with default config files
  logsift monitor

  # Replay a capture and report what the rules would do
  logsift dry-run --input capture.log --stats

  # Write starter .logcatignore and .logcatscope files
  logsift init`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default .logsift.yaml in . or $HOME)")
	pf.String("ignore-file", config.DefaultIgnoreFile, "ignore rule file")
	pf.String("scope-file", config.DefaultScopeFile, "scope file")
	pf.String("format", "auto", "logcat format (auto, threadtime, time, brief, tag, process)")
	pf.String("color", "auto", "colorize output (auto, always, never)")
	pf.String("log-level", "info", "diagnostic log level")
	pf.String("adb-path", "adb", "adb binary to invoke")
	pf.String("in-scope", "stdout", "in-scope sink (stdout, stderr, discard, or file path)")
	pf.String("ignored", "discard", "ignored sink (stdout, stderr, discard, or file path)")
	pf.String("noise", "stdout", "noise sink (stdout, stderr, discard, or file path)")

	viper.BindPFlag("ignore_file", pf.Lookup("ignore-file"))
	viper.BindPFlag("scope_file", pf.Lookup("scope-file"))
	viper.BindPFlag("format", pf.Lookup("format"))
	viper.BindPFlag("color", pf.Lookup("color"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("adb_path", pf.Lookup("adb-path"))
	viper.BindPFlag("in_scope_sink", pf.Lookup("in-scope"))
	viper.BindPFlag("ignored_sink", pf.Lookup("ignored"))
	viper.BindPFlag("noise_sink", pf.Lookup("noise"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".logsift")
	}

	viper.SetEnvPrefix("LOGSIFT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "logsift: read config: %v\n", err)
			os.Exit(1)
		}
	}
}

// runConfig assembles and validates the effective configuration.
func runConfig() (config.Config, error) {
	cfg := config.FromViper(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRunLogger creates the stderr diagnostic logger with a fresh run ID.
func newRunLogger(cfg config.Config) *logrus.Logger {
	return logging.New(cfg.LogLevel, uuid.NewString())
}

// colorEnabled resolves the color mode against the terminal state.
// color.NoColor already folds in NO_COLOR and non-TTY detection.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return !color.NoColor
}

// loadEngine builds the classification engine from the configured files.
// A missing ignore file degrades to an empty rule set with a warning; a
// malformed one is fatal. A missing scope file is silent.
func loadEngine(cfg config.Config, logger *logrus.Logger) (*engine.Engine, error) {
	rules, err := ruleset.LoadFile(cfg.IgnoreFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logger.WithField("path", cfg.IgnoreFile).
			Warn("ignore file not found, no rules loaded (run 'logsift init' to create one)")
		rules = nil
	} else {
		logger.WithFields(logrus.Fields{
			"path":  cfg.IgnoreFile,
			"rules": rules.Len(),
		}).Debug("ignore rules loaded")
	}

	sc, err := scope.LoadFile(cfg.ScopeFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		sc = nil
	} else {
		logger.WithField("path", cfg.ScopeFile).Debug("scope loaded")
	}

	return engine.New(rules, sc), nil
}
