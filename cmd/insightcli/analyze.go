package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	insight "github.com/kailas-cloud/insight"
)

var analyzeFlags struct {
	maxTopics    int
	minTopicSize int
	minBatchSize int
	maxSentences int
	threshold    float64
	minWords     int
	noSummary    bool
	noTopics     bool
	jsonOut      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a file of feedback lines",
	Long: `Reads one feedback item per line from the given file, runs the full
analysis pipeline and prints the report. Blank lines are skipped;
lines below the minimum word count are counted as rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.IntVar(&analyzeFlags.maxTopics, "max-topics", 10, "maximum number of topics to discover")
	f.IntVar(&analyzeFlags.minTopicSize, "min-topic-size", 5, "minimum items per topic")
	f.IntVar(&analyzeFlags.minBatchSize, "min-batch-size", 5, "minimum batch size for topic discovery")
	f.IntVar(&analyzeFlags.maxSentences, "max-sentences", 5, "maximum summary sentences")
	f.Float64Var(&analyzeFlags.threshold, "threshold", 0.05, "neutral sentiment threshold")
	f.IntVar(&analyzeFlags.minWords, "min-words", 3, "minimum words for a valid feedback item")
	f.BoolVar(&analyzeFlags.noSummary, "no-summary", false, "skip the extractive summary")
	f.BoolVar(&analyzeFlags.noTopics, "no-topics", false, "skip topic discovery")
	f.BoolVar(&analyzeFlags.jsonOut, "json", false, "print the report as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	texts, err := readLines(args[0])
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no feedback lines in %s", args[0])
	}

	opts := insight.DefaultOptions()
	opts.MaxTopics = analyzeFlags.maxTopics
	opts.MinTopicSize = analyzeFlags.minTopicSize
	opts.MinBatchSize = analyzeFlags.minBatchSize
	opts.MaxSummarySentences = analyzeFlags.maxSentences
	opts.SentimentThreshold = analyzeFlags.threshold
	opts.IncludeSummary = !analyzeFlags.noSummary
	opts.IncludeTopics = !analyzeFlags.noTopics

	analyzer := insight.NewAnalyzer(analyzeFlags.minWords, nil)
	report, err := analyzer.Analyze(cmd.Context(), texts, opts)
	if err != nil {
		return err
	}

	if analyzeFlags.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	return renderReport(cmd.OutOrStdout(), report)
}

// readLines reads one feedback item per line, skipping blank lines.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var texts []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		texts = append(texts, line)
	}
	return texts, nil
}
