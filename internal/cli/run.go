package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavinsood/tanuki/internal/config"
	"github.com/kavinsood/tanuki/internal/logger"
	"github.com/kavinsood/tanuki/internal/pipeline"
)

var (
	flagConfig  string
	flagDryRun  bool
	flagVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the fingerprint database and regenerate all datasets",
	Long: `Run the full pipeline: download categories, groups and the per-letter
technology buckets, classify every technology against the configured privacy
category sets, and write the derived datasets plus a summary report to the
output directory.

Examples:
  tanuki run
  tanuki run --config custom.json
  tanuki run --dry-run`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "Path to the JSON configuration file")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Load and validate configuration, then exit without fetching or writing")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	level := "info"
	if flagVerbose {
		level = "debug"
	}
	logger.Init(level)

	cfg := config.Load(flagConfig)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if flagDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	}

	return pipeline.Run(cmd.Context(), cfg)
}
