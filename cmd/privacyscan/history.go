package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyscan/internal/config"
	"github.com/nao1215/privacyscan/internal/database"
)

// defaultHistoryLimit is the number of scans listed per target.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [TARGET]",
		Short: "Show saved scans",
		Long: `Show scans saved by earlier runs of "privacyscan scan".

Without a target, list every target that has saved scans.
With a target, list its scans, newest first.

Examples:
  privacyscan history
  privacyscan history profile.yaml
  privacyscan history --limit 5 --markdown firefox:~/.mozilla/firefox/abcd.default-release`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	addFormatFlags(cmd)
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of scans to show (0 = all)")

	return cmd
}

// runHistoryCmd lists targets or the scans of one target.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := readFormatFlags(cmd, cfg); err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved scans yet. Run 'privacyscan scan' first.")
		return nil
	}
	defer db.Close() //nolint:errcheck // read-only use

	ctx := cmd.Context()
	if len(args) == 0 {
		targets, err := db.ListTargets(ctx)
		if err != nil {
			return err
		}
		return printTargets(cmd, cfg, targets)
	}

	records, err := db.History(ctx, args[0], limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s", database.ErrScanNotFound, args[0])
	}
	_, err = newWriter(cmd.OutOrStdout(), cfg).WriteHistory(args[0], records)
	return err
}

// printTargets writes the list of scanned targets.
func printTargets(cmd *cobra.Command, cfg *config.Config, targets []string) error {
	out := cmd.OutOrStdout()
	if cfg.JSONReport {
		if targets == nil {
			targets = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(targets)
	}

	if len(targets) == 0 {
		fmt.Fprintln(out, "No saved scans yet.")
		return nil
	}
	fmt.Fprintf(out, "Scanned targets (%d):\n", len(targets))
	for _, t := range targets {
		if cfg.MarkdownReport {
			fmt.Fprintf(out, "- `%s`\n", t)
			continue
		}
		fmt.Fprintf(out, "  %s\n", t)
	}
	return nil
}
