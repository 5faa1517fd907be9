package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insightcli",
	Short: "Offline customer feedback analysis",
	Long: `insightcli runs the feedback analysis pipeline locally, without a
server or database: sentiment scoring, topic discovery, extractive
summarization and synthesized recommendations over a file of feedback
lines.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
