package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/insight/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("insightcli\n")
		cmd.Printf("  Version: %s\n", version.Version)
		cmd.Printf("  Commit:  %s\n", version.Commit)
		cmd.Printf("  Built:   %s\n", version.Date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
