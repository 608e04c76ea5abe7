package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/collector"
	"github.com/nao1215/privacyscan/internal/config"
	"github.com/nao1215/privacyscan/internal/database"
	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/pipeline"
	"github.com/nao1215/privacyscan/internal/report"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

// ErrScanFailed is returned when at least one target could not be scanned.
var ErrScanFailed = errors.New("scan failed")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] TARGET [TARGET...]",
		Short: "Scan browser profiles and score their privacy",
		Long: `Scan one or more browser profiles and print a privacy report.

A target is one of:
  profile.yaml          a recorded profile fixture
  firefox:<dir>         a Firefox profile directory (cookies.sqlite)
  chromium:<dir>        a Chromium profile directory (Cookies)

The scan has a hard deadline (--timeout). Slow tabs and databases are
skipped rather than stalling the scan, and what could not be read is
listed in the report.

Examples:
  privacyscan scan profile.yaml
  privacyscan scan --json -o report.json firefox:~/.mozilla/firefox/abcd.default-release
  privacyscan scan --batch 2 work.yaml home.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	addFormatFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("no-save", false, "Do not save the scan to the history database")
	cmd.Flags().Int("max-tabs", config.DefaultMaxTabs, "Maximum number of tabs to scan")
	cmd.Flags().Duration("timeout", config.DefaultMasterTimeout, "Deadline for the whole scan of one target")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of targets scanned at the same time")
	cmd.Flags().Float64("rate", 0, "Maximum storage reads per second across all tabs (0 = unlimited)")

	return cmd
}

// runScanCmd is the main entry point for the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cmd, cfg, logger)
}

// buildScanConfig layers the scan flags over the shared configuration.
// Only flags the user actually set override the file and environment.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Targets = args

	if err := readFormatFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if noSave {
		cfg.SaveToDB = false
	}

	if cmd.Flags().Changed("max-tabs") {
		if cfg.MaxTabs, err = cmd.Flags().GetInt("max-tabs"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		var timeout time.Duration
		if timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
		cfg.MasterTimeout = timeout
	}
	if cmd.Flags().Changed("batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("rate") {
		if cfg.InjectionRate, err = cmd.Flags().GetFloat64("rate"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runScan scans every target and writes one report per target in the
// order the targets were given.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	trackerOpts, err := cfg.Rules.TrackerOptions()
	if err != nil {
		return err
	}
	a := analyzer.New(trackerdb.New(trackerOpts...), analyzer.WithLogger(logger))

	// A nil *HistoryDB must not reach the pipeline as a non-nil Store.
	var store pipeline.Store
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close history database", "error", err)
			}
		}()
		store = db
		logger.Debug("saving scans", "db_dir", cfg.DBDir)
	}

	collectorOpts := collectorOptions(cfg, logger)
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.ScanPipeline(nil, a, store, logger, collectorOpts...)
		},
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(cfg.BatchSize),
	)

	sessions, batchErr := bp.ProcessBatch(ctx, cfg.Targets)

	out, closeOut, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	writeErr := writeSessions(newWriter(out, cfg), sessions)
	if err := closeOut(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("failed to close output file: %w", err)
	}
	if writeErr != nil {
		return writeErr
	}
	if cfg.ReportFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.ReportFile)
	}

	if batchErr != nil {
		return fmt.Errorf("scan interrupted: %w", batchErr)
	}
	return failedTargets(sessions)
}

// collectorOptions maps the configuration onto collector options. The
// rate limiter is shared so that --rate bounds the whole run.
func collectorOptions(cfg *config.Config, logger *slog.Logger) []collector.Option {
	opts := []collector.Option{
		collector.WithLogger(logger),
		collector.WithTimeouts(collector.Timeouts{
			Master:       cfg.MasterTimeout,
			KeyValueTab:  cfg.KeyValueTabTimeout,
			DatabaseTab:  cfg.DatabaseTabTimeout,
			DatabaseOpen: cfg.DatabaseOpenTimeout,
			RecordCount:  cfg.RecordCountTimeout,
		}),
		collector.WithMaxTabs(cfg.MaxTabs),
		collector.WithConcurrency(cfg.TabConcurrency),
	}
	if cfg.InjectionRate > 0 {
		burst := max(1, int(cfg.InjectionRate))
		opts = append(opts, collector.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.InjectionRate), burst)))
	}
	return opts
}

// writeSessions writes every session that exists.
func writeSessions(w report.Writer, sessions []*model.ScanSession) error {
	for _, session := range sessions {
		if session == nil {
			continue
		}
		if _, err := w.Write(session); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", session.Target, err)
		}
	}
	return nil
}

// failedTargets reports targets whose pipeline stopped on an error or
// never produced an analysis.
func failedTargets(sessions []*model.ScanSession) error {
	var failed []string
	for _, session := range sessions {
		if session != nil && (session.Error != nil || session.Analysis == nil) {
			failed = append(failed, session.Target)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d targets: %v", ErrScanFailed, len(failed), len(sessions), failed)
}
