// Package sentiment scores feedback texts and aggregates the scores into
// batch-level statistics.
package sentiment

import (
	"context"
	"strings"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Service is the sentiment scoring stage.
type Service struct {
	lexicon Lexicon
}

// New creates a sentiment service backed by the given scoring capability.
func New(lexicon Lexicon) *Service {
	return &Service{lexicon: lexicon}
}

// Score scores a single text. Empty input yields the zero score rather than
// an error, so the stage stays independently callable.
func (s *Service) Score(text string) domain.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentScore{}
	}
	return s.lexicon.Score(text)
}

// ScoreAll scores every text in order. The positional mapping to the input
// is preserved: scores[i] belongs to texts[i].
func (s *Service) ScoreAll(_ context.Context, texts []string) ([]domain.SentimentScore, error) {
	scores := make([]domain.SentimentScore, len(texts))
	for i, text := range texts {
		scores[i] = s.Score(text)
	}
	return scores, nil
}

// Aggregate exposes the package-level aggregation through the service, so
// consumers can depend on one scoring interface.
func (s *Service) Aggregate(scores []domain.SentimentScore, threshold float64) domain.SentimentAggregate {
	return Aggregate(scores, threshold)
}

// Aggregate computes arithmetic means of every score field and classifies
// each item into the polarity distribution using the given threshold. An
// empty score slice yields the all-zero aggregate.
func Aggregate(scores []domain.SentimentScore, threshold float64) domain.SentimentAggregate {
	var agg domain.SentimentAggregate
	if len(scores) == 0 {
		return agg
	}

	for _, sc := range scores {
		agg.AverageCompound += sc.Compound
		agg.AveragePositive += sc.Positive
		agg.AverageNegative += sc.Negative
		agg.AverageNeutral += sc.Neutral

		switch sc.Classify(threshold) {
		case domain.ClassPositive:
			agg.Distribution.PositiveCount++
		case domain.ClassNegative:
			agg.Distribution.NegativeCount++
		default:
			agg.Distribution.NeutralCount++
		}
	}

	n := float64(len(scores))
	agg.AverageCompound /= n
	agg.AveragePositive /= n
	agg.AverageNegative /= n
	agg.AverageNeutral /= n
	return agg
}
