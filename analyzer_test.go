package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/insight/internal/domain"
)

func TestAnalyzer_EndToEnd(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	texts := []string{
		"Great product! Very satisfied.",
		"Terrible service. Will not recommend.",
		"The package arrived on Tuesday.",
	}

	report, err := analyzer.Analyze(context.Background(), texts, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ReportID == "" {
		t.Error("expected a report id")
	}
	if report.ValidCount != 3 || report.InvalidCount != 0 {
		t.Errorf("counts: got %d/%d, want 3/0", report.ValidCount, report.InvalidCount)
	}
	if report.Sentiment.PositiveCount != 1 || report.Sentiment.NegativeCount != 1 || report.Sentiment.NeutralCount != 1 {
		t.Errorf("distribution: got %d/%d/%d, want 1/1/1",
			report.Sentiment.PositiveCount, report.Sentiment.NeutralCount, report.Sentiment.NegativeCount)
	}
	if report.TopicsFound {
		t.Error("three items are below the batch minimum for topics")
	}
	if report.Summary == nil {
		t.Error("expected a summary with default options")
	}
	if report.ExecutiveSummary == "" {
		t.Error("expected an executive summary")
	}
}

func TestAnalyzer_InvalidTextsCounted(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	texts := []string{"Works fine for me.", "", "  ", "too short"}

	report, err := analyzer.Analyze(context.Background(), texts, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ValidCount != 1 || report.InvalidCount != 3 {
		t.Errorf("counts: got %d/%d, want 1/3", report.ValidCount, report.InvalidCount)
	}
}

func TestAnalyzer_AllInvalidProducesReport(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	report, err := analyzer.Analyze(context.Background(), []string{"", "   "}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ValidCount != 0 {
		t.Errorf("valid count: got %d, want 0", report.ValidCount)
	}
	if len(report.KeyInsights) == 0 {
		t.Error("expected a no-data insight")
	}
}

func TestAnalyzer_InvalidOptions(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	opts := DefaultOptions()
	opts.MaxTopics = -1
	_, err := analyzer.Analyze(context.Background(), []string{"Works fine for me."}, opts)
	if !errors.Is(err, domain.ErrInvalidOptions) {
		t.Errorf("expected invalid options error, got %v", err)
	}
}

func TestAnalyzer_TopicsAboveMinimum(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	texts := []string{
		"The shipping was slow and the box damaged.",
		"Shipping took two weeks, box arrived damaged.",
		"Slow shipping, but the box was fine.",
		"Battery life is amazing on this device.",
		"The battery lasts all day, amazing device.",
		"Amazing battery, the device charges fast.",
	}

	opts := DefaultOptions()
	opts.MinBatchSize = 2
	opts.MinTopicSize = 2

	report, err := analyzer.Analyze(context.Background(), texts, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.TopicsFound {
		t.Fatalf("expected topics, got message %q", report.TopicsMessage)
	}
	for _, topic := range report.Topics {
		if topic.Size < 2 {
			t.Errorf("topic %d below minimum size: %d", topic.ID, topic.Size)
		}
		if len(topic.Keywords) == 0 {
			t.Errorf("topic %d has no keywords", topic.ID)
		}
	}
}

func TestAnalyzer_SummaryToggle(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	opts := DefaultOptions()
	opts.IncludeSummary = false

	report, err := analyzer.Analyze(context.Background(), []string{"Works fine for me."}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary != nil {
		t.Error("summary should be omitted when disabled")
	}
}

func TestAnalyzer_MinWordCountOverride(t *testing.T) {
	analyzer := NewAnalyzer(1, nil)

	report, err := analyzer.Analyze(context.Background(), []string{"short"}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ValidCount != 1 {
		t.Errorf("single word should pass with min word count 1, got %d valid", report.ValidCount)
	}
}

func TestAnalyzer_ExecutiveSummaryMentionsCounts(t *testing.T) {
	analyzer := NewAnalyzer(0, nil)

	report, err := analyzer.Analyze(context.Background(),
		[]string{"Great product! Very satisfied.", ""}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report.ExecutiveSummary, "Analyzed 1 feedback items (1 rejected)") {
		t.Errorf("executive summary: %q", report.ExecutiveSummary)
	}
}
