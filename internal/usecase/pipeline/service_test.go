package pipeline

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/metrics"
	"github.com/kailas-cloud/insight/internal/nlp/cluster"
	"github.com/kailas-cloud/insight/internal/nlp/extract"
	"github.com/kailas-cloud/insight/internal/nlp/lexicon"
	"github.com/kailas-cloud/insight/internal/usecase/normalize"
	"github.com/kailas-cloud/insight/internal/usecase/sentiment"
	"github.com/kailas-cloud/insight/internal/usecase/summarize"
	"github.com/kailas-cloud/insight/internal/usecase/synthesis"
	"github.com/kailas-cloud/insight/internal/usecase/topics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func newMockedService(scorer *mockScorer, discoverer *mockDiscoverer, summarizer *mockSummarizer) *Service {
	return New(passNormalizer{}, scorer, discoverer, summarizer,
		&mockSynthesizer{insights: []string{"i"}, recommendations: []string{"r"}},
		zap.NewNop())
}

// newRealService wires the in-process capabilities end to end.
func newRealService() *Service {
	return New(
		normalize.New(3),
		sentiment.New(lexicon.New()),
		topics.New(cluster.New(), zap.NewNop()),
		summarize.New(extract.New(), extract.New(), zap.NewNop()),
		synthesis.New(synthesis.DefaultRuleSet()),
		zap.NewNop(),
	)
}

func TestRun_InvalidOptions(t *testing.T) {
	s := newMockedService(&mockScorer{}, &mockDiscoverer{}, &mockSummarizer{})

	opts := domain.DefaultAnalysisOptions()
	opts.MaxTopics = 0

	_, err := s.Run(context.Background(), rawBatch("b01", "some feedback text here"), opts)

	var pErr *domain.PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *domain.PipelineError, got %v", err)
	}
	if pErr.Stage != domain.StageConfigure || pErr.Kind != domain.KindConfiguration {
		t.Errorf("stage/kind = %s/%s, want configure/configuration_error", pErr.Stage, pErr.Kind)
	}
	if !errors.Is(err, domain.ErrInvalidOptions) {
		t.Error("expected wrapped domain.ErrInvalidOptions")
	}
}

func TestRun_CountsAddUp(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01",
		"the product works really well",
		"",
		"terrible support experience overall honestly",
		"no",
	)
	report, err := s.Run(context.Background(), batch, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ValidCount+report.InvalidCount != len(batch.Items) {
		t.Errorf("valid %d + invalid %d != submitted %d",
			report.ValidCount, report.InvalidCount, len(batch.Items))
	}
	if report.ValidCount != 2 {
		t.Errorf("valid count = %d, want 2", report.ValidCount)
	}
	total := report.Sentiment.Distribution.Total()
	if total != report.ValidCount {
		t.Errorf("distribution total = %d, want %d", total, report.ValidCount)
	}
}

func TestRun_CarriesIntakeRejections(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01",
		"the product works really well",
		"terrible support experience overall honestly",
	)
	batch.InvalidCount = 2

	report, err := s.Run(context.Background(), batch, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ValidCount != 2 {
		t.Errorf("valid count = %d, want 2", report.ValidCount)
	}
	if report.InvalidCount != 2 {
		t.Errorf("invalid count = %d, want 2 carried from intake", report.InvalidCount)
	}
}

func TestRun_ThreeItemScenario(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01",
		"Great product! Very satisfied.",
		"Terrible service. Will not recommend.",
		"The package arrived on Tuesday.",
	)
	report, err := s.Run(context.Background(), batch, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := report.Sentiment.Distribution
	if d.PositiveCount != 1 || d.NeutralCount != 1 || d.NegativeCount != 1 {
		t.Errorf("distribution = %+v, want 1/1/1", d)
	}
	if report.Topics.Status != domain.TopicStatusInsufficientData {
		t.Errorf("topic status = %q, want insufficient_data for batch of 3", report.Topics.Status)
	}
}

func TestRun_EmptyBatchCompletes(t *testing.T) {
	s := newRealService()

	report, err := s.Run(context.Background(), &domain.FeedbackBatch{BatchID: "b01"},
		domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("empty batch must complete, got %v", err)
	}

	if report.Sentiment != (domain.SentimentAggregate{}) {
		t.Errorf("sentiment = %+v, want all zero", report.Sentiment)
	}
	if report.Topics.Status != domain.TopicStatusInsufficientData {
		t.Errorf("topic status = %q, want insufficient_data", report.Topics.Status)
	}
	found := false
	for _, insight := range report.KeyInsights {
		if insight == "No valid feedback items to analyze." {
			found = true
		}
	}
	if !found {
		t.Errorf("key insights = %v, want an explicit no-data notice", report.KeyInsights)
	}
	if report.ReportID == "" || report.GeneratedAt.IsZero() {
		t.Error("degenerate report must still carry id and timestamp")
	}
}

func TestRun_AllItemsInvalidCompletes(t *testing.T) {
	s := newRealService()

	report, err := s.Run(context.Background(), rawBatch("b01", "", "no", "   "),
		domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("zero-valid batch must complete, got %v", err)
	}
	if report.ValidCount != 0 || report.InvalidCount != 3 {
		t.Errorf("counts = %d/%d, want 0/3", report.ValidCount, report.InvalidCount)
	}
}

func TestRun_TopicsDisabledSkipsDiscoverer(t *testing.T) {
	discoverer := &mockDiscoverer{result: domain.TopicsOK([]domain.Topic{{TopicID: 0, Size: 2}}, 0)}
	s := newMockedService(&mockScorer{}, discoverer, &mockSummarizer{})

	opts := domain.DefaultAnalysisOptions()
	opts.IncludeTopics = false

	report, err := s.Run(context.Background(),
		rawBatch("b01", "first item text", "second item text"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discoverer.calls != 0 {
		t.Errorf("discoverer invoked %d times with topics disabled, want 0", discoverer.calls)
	}
	if report.Topics.Status != domain.TopicStatusInsufficientData {
		t.Errorf("topic status = %q, want insufficient_data", report.Topics.Status)
	}
	if len(report.Topics.Topics) != 0 {
		t.Errorf("topics = %v, want empty", report.Topics.Topics)
	}
}

func TestRun_SummaryToggle(t *testing.T) {
	summarizer := &mockSummarizer{result: domain.SummaryResult{SummaryText: "s"}}
	s := newMockedService(&mockScorer{}, &mockDiscoverer{result: domain.TopicsInsufficient("x")}, summarizer)

	opts := domain.DefaultAnalysisOptions()
	opts.IncludeSummary = false

	report, err := s.Run(context.Background(), rawBatch("b01", "one feedback text"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary != nil {
		t.Error("expected nil summary when disabled")
	}
	if summarizer.calls != 0 {
		t.Errorf("summarizer invoked %d times when disabled, want 0", summarizer.calls)
	}

	opts.IncludeSummary = true
	report, err = s.Run(context.Background(), rawBatch("b01", "one feedback text"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary == nil || report.Summary.SummaryText != "s" {
		t.Errorf("summary = %+v, want SummaryText s", report.Summary)
	}
}

func TestRun_ScorerFailureIsPipelineError(t *testing.T) {
	scorer := &mockScorer{err: errors.New("model crashed")}
	s := newMockedService(scorer, &mockDiscoverer{result: domain.TopicsInsufficient("x")}, &mockSummarizer{})

	_, err := s.Run(context.Background(), rawBatch("b01", "some feedback text"),
		domain.DefaultAnalysisOptions())

	var pErr *domain.PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *domain.PipelineError, got %v", err)
	}
	if pErr.Stage != domain.StageAnalyze || pErr.Kind != domain.KindCapabilityFailure {
		t.Errorf("stage/kind = %s/%s, want analyze/capability_failure", pErr.Stage, pErr.Kind)
	}
}

func TestRun_CancelledAtStageBoundary(t *testing.T) {
	s := newMockedService(&mockScorer{}, &mockDiscoverer{}, &mockSummarizer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, rawBatch("b01", "some feedback text"), domain.DefaultAnalysisOptions())

	var pErr *domain.PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *domain.PipelineError, got %v", err)
	}
	if pErr.Kind != domain.KindCancelled {
		t.Errorf("kind = %s, want cancelled", pErr.Kind)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected wrapped context.Canceled")
	}
}

func TestRun_DuplicatesFlaggedNotRemoved(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01",
		"the app keeps crashing daily",
		"The app keeps crashing daily",
		"battery life could be better",
	)
	report, err := s.Run(context.Background(), batch, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ValidCount != 3 {
		t.Errorf("valid count = %d, want 3 (duplicates kept)", report.ValidCount)
	}
	if report.DuplicateCount != 1 {
		t.Errorf("duplicate count = %d, want 1", report.DuplicateCount)
	}
}

func TestRun_SingleItemBoundary(t *testing.T) {
	s := newRealService()

	report, err := s.Run(context.Background(),
		rawBatch("b01", "Great product! Very satisfied."), domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lex := lexicon.New()
	want := lex.Score("Great product! Very satisfied.")
	if report.Sentiment.AverageCompound != want.Compound {
		t.Errorf("average compound = %g, want the single item's score %g",
			report.Sentiment.AverageCompound, want.Compound)
	}
	if report.Topics.Status != domain.TopicStatusInsufficientData {
		t.Errorf("topic status = %q, want insufficient_data", report.Topics.Status)
	}
}

func TestRun_Idempotent(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01",
		"shipping was slow and the box arrived damaged",
		"slow shipping and a damaged box on arrival",
		"shipping took weeks, the box came damaged",
		"battery drains too fast on this phone",
		"battery drains fast and needs charging twice daily",
		"the battery drains very fast after updating",
	)
	opts := domain.DefaultAnalysisOptions()
	opts.MinTopicSize = 2

	first, err := s.Run(context.Background(), batch, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Run(context.Background(), batch, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Sentiment, second.Sentiment) {
		t.Errorf("sentiment differs across runs: %+v vs %+v", first.Sentiment, second.Sentiment)
	}
	if !reflect.DeepEqual(first.Topics, second.Topics) {
		t.Errorf("topics differ across runs: %+v vs %+v", first.Topics, second.Topics)
	}
	if first.ReportID == second.ReportID {
		t.Error("expected a fresh report id per run")
	}
}

func TestRun_InputBatchNotMutated(t *testing.T) {
	s := newRealService()

	batch := rawBatch("b01", "visit https://example.com for the full review text")
	rawBefore := batch.Items[0].RawText

	if _, err := s.Run(context.Background(), batch, domain.DefaultAnalysisOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.Items[0].RawText != rawBefore {
		t.Error("input raw text mutated")
	}
	if batch.Items[0].NormalizedText != "" {
		t.Error("input batch normalized in place; expected a working copy")
	}
}
