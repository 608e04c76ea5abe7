package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyscan/internal/analyzer"
	"github.com/nao1215/privacyscan/internal/database"
)

// ErrNotEnoughScans is returned when a target has fewer than two saved scans.
var ErrNotEnoughScans = errors.New("at least two saved scans are needed to compare")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare TARGET",
		Short: "Compare the two latest scans of a target",
		Long: `Compare the two most recent saved scans of a target and show what
changed: score, cookies per category, tracker companies and high-risk items.

Examples:
  privacyscan compare profile.yaml
  privacyscan compare --json firefox:~/.mozilla/firefox/abcd.default-release`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	addFormatFlags(cmd)

	return cmd
}

// runCompareCmd compares the latest scan of a target with the one before it.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := readFormatFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	target := args[0]

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%w: %s", ErrNotEnoughScans, target)
	}
	defer db.Close() //nolint:errcheck // read-only use

	scans, err := db.Latest(cmd.Context(), target, 2)
	if errors.Is(err, database.ErrScanNotFound) || (err == nil && len(scans) < 2) {
		return fmt.Errorf("%w: %s", ErrNotEnoughScans, target)
	}
	if err != nil {
		return err
	}

	// Latest returns newest first.
	current, previous := scans[0], scans[1]
	logger.Debug("comparing scans",
		"target", target,
		"previous_id", previous.ID,
		"current_id", current.ID,
	)
	if current.Digest != "" && current.Digest == previous.Digest {
		logger.Info("storage is unchanged between the two scans", "target", target)
	}

	c := analyzer.Compare(previous.Analysis, current.Analysis)
	_, err = newWriter(cmd.OutOrStdout(), cfg).WriteComparison(target, c)
	return err
}
