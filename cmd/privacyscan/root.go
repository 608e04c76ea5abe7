package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for privacyscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privacyscan",
		Short: "Privacy audit for browser cookies and storage",
		Long: `privacyscan inspects the client-side storage of a browser profile and
reports how much cross-site tracking it carries.

It reads cookies, per-tab and shared key/value storage and databases,
classifies every cookie against a tracker list, computes a 0-100 privacy
score and lists concrete recommendations. Scans are saved so that later
scans can be compared against earlier ones.

privacyscan only reads. It never deletes or blocks anything.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .privacyscan in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the scan history database (default: XDG data directory)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
