// Package summarize produces an extractive batch summary with key phrases.
package summarize

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/nlp"
)

// MaxPhrases caps the key-phrase list in the summary result.
const MaxPhrases = 10

// Service is the summarization stage. A ranking failure degrades to plain
// truncation instead of propagating.
type Service struct {
	ranker  SentenceRanker
	phrases PhraseExtractor
	logger  *zap.Logger
}

// New creates a summarize service.
func New(ranker SentenceRanker, phrases PhraseExtractor, logger *zap.Logger) *Service {
	return &Service{ranker: ranker, phrases: phrases, logger: logger}
}

// Summarize extracts up to maxSentences representative sentences plus key
// phrases from the texts. When the ranking capability fails the summary
// falls back to truncating the concatenated texts and is marked Degraded;
// key phrases are extracted either way.
func (s *Service) Summarize(
	_ context.Context, texts []string, maxSentences int,
) domain.SummaryResult {
	if len(texts) == 0 {
		return domain.SummaryResult{KeyPhrases: []string{}}
	}

	result := domain.SummaryResult{
		KeyPhrases: s.phrases.KeyPhrases(texts, MaxPhrases),
	}

	text, err := s.ranker.RankSentences(texts, maxSentences)
	if err != nil {
		s.logger.Warn("Sentence ranking failed, falling back to truncation",
			zap.Int("batch_size", len(texts)),
			zap.Error(err),
		)
		result.SummaryText = truncate(texts, maxSentences)
		result.Degraded = true
		return result
	}

	result.SummaryText = text
	return result
}

// truncate keeps the first maxSentences sentences of the concatenated texts.
func truncate(texts []string, maxSentences int) string {
	sentences := nlp.SplitSentences(strings.Join(texts, " "))
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return strings.Join(sentences, " ")
}
