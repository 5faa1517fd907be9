package sentiment

import "github.com/kailas-cloud/insight/internal/domain"

// Lexicon is the per-text scoring capability. Implementations must be safe
// for concurrent use; the in-process lexicon scorer is read-only after
// construction.
type Lexicon interface {
	Score(text string) domain.SentimentScore
}
