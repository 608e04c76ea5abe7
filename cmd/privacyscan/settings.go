package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyscan/internal/config"
	"github.com/nao1215/privacyscan/internal/database"
	plog "github.com/nao1215/privacyscan/internal/log"
	"github.com/nao1215/privacyscan/internal/report"
)

// loadConfig builds the configuration shared by every command:
// defaults, then the config file, then the environment, then global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path was specified, run with defaults when no file exists.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := config.ApplyEnv(cfg, config.DefaultEnvFile); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		if cfg.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
			return nil, err
		}
	}
	if cfg.LogJSON, err = cmd.Flags().GetBool("log-json"); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger creates the process logger. Logs go to stderr so that reports
// on stdout stay machine-readable.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return plog.New(cmd.ErrOrStderr(), plog.Options{Verbose: cfg.Verbose, JSON: cfg.LogJSON})
}

// addFormatFlags registers --json and --markdown.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
}

// readFormatFlags copies --json and --markdown into cfg.
func readFormatFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}
	return nil
}

// newWriter returns the report writer selected by cfg.
func newWriter(out io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithToolVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns the report destination: cfg.ReportFile when set,
// otherwise the command's stdout. The returned func closes the file.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports name the sites a profile visits, so they are readable by the owner only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// openHistory opens the history database read-write without creating it.
// It returns (nil, nil) when no scan was ever saved.
func openHistory(cfg *config.Config) (*database.HistoryDB, error) {
	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}
