package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crimson-sun/logsift/internal/config"
	"github.com/crimson-sun/logsift/internal/engine"
	"github.com/crimson-sun/logsift/internal/metrics"
	"github.com/crimson-sun/logsift/internal/pipeline"
	"github.com/crimson-sun/logsift/internal/router"
	"github.com/crimson-sun/logsift/internal/sink"
	"github.com/crimson-sun/logsift/internal/source"
)

var monitorCmd = &cobra.Command{
	Use:     "monitor [-- adb-logcat-args...]",
	Aliases: []string{"mon"},
	Short:   "Stream live logcat output through the filter",
	Long: `monitor attaches to a device via adb logcat and routes every line as it
arrives. Arguments after -- are passed to adb logcat unchanged, e.g.

  logsift monitor -- -b radio`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	f := monitorCmd.Flags()
	f.Bool("raw", false, "echo every line unfiltered (parsed only for coloring)")
	f.Bool("clear", false, "clear the device log buffer before streaming")
	f.Bool("two-stream", false, "show in-scope and noise on one stream")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	viper.BindPFlag("metrics_addr", f.Lookup("metrics-addr"))
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	logger := newRunLogger(cfg)

	raw, _ := cmd.Flags().GetBool("raw")
	clearFirst, _ := cmd.Flags().GetBool("clear")
	twoStream, _ := cmd.Flags().GetBool("two-stream")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if clearFirst {
		if err := source.ClearBuffer(ctx, cfg.ADBPath); err != nil {
			return err
		}
		logger.Info("device log buffer cleared")
	}

	var eng *engine.Engine
	if raw {
		// No rules, no scope: every line falls through to the shown stream.
		eng = engine.New(nil, nil)
	} else {
		eng, err = loadEngine(cfg, logger)
		if err != nil {
			return err
		}
	}

	sinks, err := openSinks(cfg, colorEnabled(cfg.Color), twoStream, raw)
	if err != nil {
		return err
	}

	opts := []router.Option{router.WithFormat(cfg.ParsedFormat())}
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		opts = append(opts, router.WithMetrics(m))
		startMetricsServer(ctx, cfg.MetricsAddr, m, logger)
	}

	src := &source.ADB{Path: cfg.ADBPath, Args: args}
	p := pipeline.New(src, router.New(eng, sinks, opts...))
	defer p.Close()

	logger.WithFields(logrus.Fields{
		"adb":    cfg.ADBPath,
		"format": cfg.Format,
		"raw":    raw,
	}).Info("monitoring")

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openSinks binds the three routes to their targets, opening each distinct
// target once so routes sharing a destination share the sink.
func openSinks(cfg config.Config, colored, twoStream, raw bool) (router.Sinks, error) {
	opened := map[string]sink.Sink{}
	open := func(target string) (sink.Sink, error) {
		if s, ok := opened[target]; ok {
			return s, nil
		}
		s, err := sink.Open(target, colored)
		if err != nil {
			return nil, err
		}
		opened[target] = s
		return s, nil
	}

	if raw {
		// Raw mode classifies nothing, so everything arrives as noise.
		shown, err := open(cfg.InScopeSink)
		if err != nil {
			return router.Sinks{}, err
		}
		return router.Sinks{Noise: shown}, nil
	}

	noiseTarget := cfg.NoiseSink
	if twoStream {
		noiseTarget = cfg.InScopeSink
	}

	var sinks router.Sinks
	var err error
	if sinks.InScope, err = open(cfg.InScopeSink); err != nil {
		return router.Sinks{}, err
	}
	if sinks.Ignored, err = open(cfg.IgnoredSink); err != nil {
		return router.Sinks{}, err
	}
	if sinks.Noise, err = open(noiseTarget); err != nil {
		return router.Sinks{}, err
	}
	return sinks, nil
}

func startMetricsServer(ctx context.Context, addr string, m *metrics.Metrics, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.WithField("addr", addr).Info("metrics endpoint up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
