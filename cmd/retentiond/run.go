package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"cccb/retentiond/pkg/cli"
	"cccb/retentiond/pkg/ledger"
	"cccb/retentiond/pkg/scanner"
	"cccb/retentiond/pkg/telemetry/metrics"
)

var runFlags struct {
	scanOnStart bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the retention daemon",
	Long: `Run the retention daemon: expiration scans on the configured cron
schedule, a Prometheus metrics endpoint, and optionally a watch on the
ledger file for out-of-band edits.

Examples:
  # Run with the default config location
  retentiond run

  # Run with a custom config and an immediate first scan
  retentiond run --config /etc/retentiond/config.yaml --scan-on-start`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.scanOnStart, "scan-on-start", false, "run one scan immediately on startup")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	notifier, cleanup, err := buildNotifier(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer cleanup()

	collector := metrics.NewCollector(nil)
	s := scanner.New(buildStore(cfg), notifier, cfg.Retention.ReminderDays).
		WithMetrics(collector)

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if runFlags.scanOnStart {
		if err := s.Scan(ctx); err != nil {
			return err
		}
	}

	sched := scanner.NewScheduler(s, cfg.Retention.ScanSchedule)
	if err := sched.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer sched.Stop()

	if next := sched.NextScan(); next != nil {
		slog.Info("scan scheduler started",
			"schedule", cfg.Retention.ScanSchedule,
			"next_scan", next,
		)
	}

	// Metrics endpoint
	var metricsServer *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		metricsServer = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			slog.Info("metrics endpoint listening",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics listener failed", "error", err)
			}
		}()
	}

	// Ledger file watch
	if cfg.Ledger.WatchForChanges {
		watcher, err := ledger.NewWatcher(cfg.Ledger.Path)
		if err != nil {
			slog.Warn("could not watch ledger file", "error", err)
		} else {
			go watcher.Run(ctx, func(op string) {
				collector.LedgerReloaded()
			})
		}
	}

	fmt.Printf("retentiond %s running, ledger %s\n", Version, cfg.Ledger.Path)

	<-ctx.Done()
	slog.Info("shutting down")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics listener shutdown failed", "error", err)
		}
	}
	return nil
}
