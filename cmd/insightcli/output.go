package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	insight "github.com/kailas-cloud/insight"
)

// Color variables for console output.
var (
	headerColor   = color.New(color.FgWhite, color.Bold)
	positiveColor = color.New(color.FgGreen)
	negativeColor = color.New(color.FgRed, color.Bold)
	neutralColor  = color.New(color.FgYellow)
	degradedColor = color.New(color.FgMagenta)
)

func renderReport(w io.Writer, report insight.Report) error {
	fmt.Fprintln(w, headerColor.Sprint("Feedback Analysis Report"))
	fmt.Fprintf(w, "Report %s, generated %s\n\n", report.ReportID,
		report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintln(w, report.ExecutiveSummary)
	fmt.Fprintln(w)

	if err := renderSentiment(w, report); err != nil {
		return err
	}
	if err := renderTopics(w, report); err != nil {
		return err
	}
	renderSummary(w, report.Summary)
	renderList(w, "Key insights", report.KeyInsights)
	renderList(w, "Recommendations", report.Recommendations)

	fmt.Fprintf(w, "Items: %d analyzed, %d rejected, %d duplicates flagged\n",
		report.ValidCount, report.InvalidCount, report.DuplicateCount)
	return nil
}

func renderSentiment(w io.Writer, report insight.Report) error {
	fmt.Fprintln(w, headerColor.Sprint("Sentiment"))

	total := report.Sentiment.PositiveCount + report.Sentiment.NeutralCount + report.Sentiment.NegativeCount
	share := func(count int) string {
		if total == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.0f%%", 100*float64(count)/float64(total))
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Class", "Count", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{positiveColor.Sprint("positive"), strconv.Itoa(report.Sentiment.PositiveCount), share(report.Sentiment.PositiveCount)},
		{neutralColor.Sprint("neutral"), strconv.Itoa(report.Sentiment.NeutralCount), share(report.Sentiment.NeutralCount)},
		{negativeColor.Sprint("negative"), strconv.Itoa(report.Sentiment.NegativeCount), share(report.Sentiment.NegativeCount)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Average compound: %s\n\n", compoundLabel(report.Sentiment.AverageCompound))
	return nil
}

func compoundLabel(compound float64) string {
	text := fmt.Sprintf("%.3f", compound)
	switch {
	case compound > 0.05:
		return positiveColor.Sprint(text)
	case compound < -0.05:
		return negativeColor.Sprint(text)
	default:
		return neutralColor.Sprint(text)
	}
}

func renderTopics(w io.Writer, report insight.Report) error {
	fmt.Fprintln(w, headerColor.Sprint("Topics"))

	if !report.TopicsFound {
		fmt.Fprintf(w, "No topics: %s\n\n", report.TopicsMessage)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Keywords", "Size"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, topic := range report.Topics {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strings.Join(topic.Keywords, ", "),
			strconv.Itoa(topic.Size),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return nil
}

func renderSummary(w io.Writer, summary *insight.Summary) {
	if summary == nil {
		return
	}

	fmt.Fprintln(w, headerColor.Sprint("Summary"))
	if summary.Degraded {
		fmt.Fprintln(w, degradedColor.Sprint("(degraded: summarizer fell back to truncation)"))
	}
	fmt.Fprintln(w, summary.Text)
	if len(summary.KeyPhrases) > 0 {
		fmt.Fprintf(w, "Key phrases: %s\n", strings.Join(summary.KeyPhrases, ", "))
	}
	fmt.Fprintln(w)
}

func renderList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, headerColor.Sprint(title))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w)
}
