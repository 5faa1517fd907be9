package pipeline

import (
	"context"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Normalizer is the per-item text cleaning capability.
type Normalizer interface {
	Normalize(raw string) (string, error)
}

// Scorer is the sentiment scoring capability with batch aggregation.
type Scorer interface {
	ScoreAll(ctx context.Context, texts []string) ([]domain.SentimentScore, error)
	Aggregate(scores []domain.SentimentScore, threshold float64) domain.SentimentAggregate
}

// TopicDiscoverer is the topic clustering stage.
type TopicDiscoverer interface {
	Discover(ctx context.Context, texts []string, opts domain.AnalysisOptions) domain.TopicResult
}

// Summarizer is the extractive summarization stage.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string, maxSentences int) domain.SummaryResult
}

// Synthesizer turns aggregates into insights and recommendations.
type Synthesizer interface {
	Synthesize(
		batch *domain.FeedbackBatch,
		agg domain.SentimentAggregate,
		topics domain.TopicResult,
		summary *domain.SummaryResult,
	) (insights, recommendations []string)
	ExecutiveSummary(report *domain.AnalysisReport) string
}
