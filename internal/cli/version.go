package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavinsood/tanuki/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tanuki version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tanuki %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
