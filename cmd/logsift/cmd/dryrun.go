package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/logsift/internal/engine"
	"github.com/crimson-sun/logsift/internal/pipeline"
	"github.com/crimson-sun/logsift/internal/router"
	"github.com/crimson-sun/logsift/internal/source"
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Replay a captured log file and report what the rules would do",
	Long: `dry-run classifies every line of a capture without a device attached.
With --stats it suppresses routed output and prints exact statistics
instead: totals, per-route counts, top matched rules, and per-tag counts.`,
	RunE: runDryRun,
}

func init() {
	rootCmd.AddCommand(dryRunCmd)
	f := dryRunCmd.Flags()
	f.String("input", "", "captured logcat file to replay")
	f.Bool("stats", false, "suppress output, print classification statistics")
	f.String("report", "text", "statistics format (text, json, yaml)")
	dryRunCmd.MarkFlagRequired("input")
}

func runDryRun(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	logger := newRunLogger(cfg)

	input, _ := cmd.Flags().GetString("input")
	statsOnly, _ := cmd.Flags().GetBool("stats")
	reportFormat, _ := cmd.Flags().GetString("report")

	eng, err := loadEngine(cfg, logger)
	if err != nil {
		return err
	}

	var sinks router.Sinks
	if !statsOnly {
		sinks, err = openSinks(cfg, colorEnabled(cfg.Color), false, false)
		if err != nil {
			return err
		}
	}

	stats := engine.NewStats()
	rt := router.New(eng, sinks,
		router.WithFormat(cfg.ParsedFormat()),
		router.WithStats(stats),
	)

	p := pipeline.New(&source.File{Path: input}, rt)
	if err := p.Run(context.Background()); err != nil {
		p.Close()
		return err
	}
	if err := p.Close(); err != nil {
		return err
	}

	if statsOnly {
		out, err := stats.Report().Render(reportFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}
