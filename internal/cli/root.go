// Package cli wires the sologit command tree together with cobra: a
// repository/workpad lifecycle, the patch pipeline, the AI orchestrator,
// and budget/status reporting, all sharing one data root resolved from
// a --data-dir flag, $SOLOGIT_DATA_DIR, or the built-in default.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	dataDirFlag string
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "sologit",
	Short: "A solo-developer version-control engine built on ephemeral workpads",
	Long: `sologit replaces long-lived feature branches with ephemeral, disposable
workpads layered over a Git-backed trunk, and coordinates an AI orchestrator
that plans, generates, and reviews patches against those workpads under a
daily cost budget.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data root (default: ~/.sologit/data, or $SOLOGIT_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Orchestrator config file (YAML); defaults to <data-dir>/config.yaml if present")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sologit %s\n", Version)
	},
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	return nil
}

func resolveDataDir() string {
	if dataDirFlag != "" {
		return dataDirFlag
	}
	if env := os.Getenv("SOLOGIT_DATA_DIR"); env != "" {
		return env
	}
	return ""
}
