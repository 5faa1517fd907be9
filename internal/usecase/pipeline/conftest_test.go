package pipeline

import (
	"context"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/usecase/sentiment"
)

// passNormalizer accepts every text unchanged.
type passNormalizer struct{}

func (passNormalizer) Normalize(raw string) (string, error) { return raw, nil }

type mockScorer struct {
	scores []domain.SentimentScore
	err    error
	calls  int
}

func (m *mockScorer) ScoreAll(_ context.Context, texts []string) ([]domain.SentimentScore, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.scores != nil {
		return m.scores, nil
	}
	return make([]domain.SentimentScore, len(texts)), nil
}

func (m *mockScorer) Aggregate(scores []domain.SentimentScore, threshold float64) domain.SentimentAggregate {
	return sentiment.Aggregate(scores, threshold)
}

type mockDiscoverer struct {
	result domain.TopicResult
	calls  int
}

func (m *mockDiscoverer) Discover(_ context.Context, _ []string, _ domain.AnalysisOptions) domain.TopicResult {
	m.calls++
	return m.result
}

type mockSummarizer struct {
	result domain.SummaryResult
	calls  int
}

func (m *mockSummarizer) Summarize(_ context.Context, _ []string, _ int) domain.SummaryResult {
	m.calls++
	return m.result
}

type mockSynthesizer struct {
	insights        []string
	recommendations []string
}

func (m *mockSynthesizer) Synthesize(
	_ *domain.FeedbackBatch, _ domain.SentimentAggregate,
	_ domain.TopicResult, _ *domain.SummaryResult,
) ([]string, []string) {
	return m.insights, m.recommendations
}

func (m *mockSynthesizer) ExecutiveSummary(_ *domain.AnalysisReport) string {
	return "summary"
}

func rawBatch(id string, texts ...string) *domain.FeedbackBatch {
	batch := &domain.FeedbackBatch{BatchID: id}
	for _, text := range texts {
		batch.Items = append(batch.Items, domain.FeedbackItem{RawText: text})
	}
	return batch
}
