// Package cli defines the tanuki command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tanuki",
	Short: "Privacy technology dataset generator",
	Long: `tanuki downloads the webappanalyzer fingerprint database, scores every
technology against configurable privacy category sets, and regenerates the
derived datasets: a privacy technology list, cookie/JavaScript/network
detection pattern lists, an extension-ready compact database and a summary
report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
