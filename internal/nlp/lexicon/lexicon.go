// Package lexicon implements a VADER-style rule-based polarity scorer.
// It is the default in-process sentiment capability: deterministic, no
// model loading, valences on the conventional [-4, 4] scale.
package lexicon

import (
	"math"
	"strings"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/nlp"
)

// normAlpha is the normalization constant mapping the raw valence sum into
// [-1, 1] via sum / sqrt(sum^2 + alpha).
const normAlpha = 15.0

// negationDampener scales (and flips) the valence of a negated term.
const negationDampener = -0.74

// boosterDecay reduces booster influence with distance from the scored term.
var boosterDecay = []float64{1.0, 0.95, 0.9}

// exclamationBoost is added per trailing exclamation mark, capped at 4.
const exclamationBoost = 0.292

// Scorer scores text polarity against a fixed valence lexicon.
type Scorer struct {
	valences  map[string]float64
	boosters  map[string]float64
	negations map[string]struct{}
}

// New creates a scorer with the built-in lexicon.
func New() *Scorer {
	return &Scorer{
		valences:  defaultValences,
		boosters:  defaultBoosters,
		negations: defaultNegations,
	}
}

// Score produces the four-field sentiment vector for one text. Empty or
// token-free input yields the all-zero score.
func (s *Scorer) Score(text string) domain.SentimentScore {
	tokens := nlp.Tokenize(text)
	if len(tokens) == 0 {
		return domain.SentimentScore{}
	}

	var sum, sumPos, sumNeg float64
	neutralCount := 0

	for i, tok := range tokens {
		valence, ok := s.valences[tok]
		if !ok {
			if _, isBooster := s.boosters[tok]; !isBooster {
				neutralCount++
			}
			continue
		}

		valence += s.boost(tokens, i, valence)
		if s.negated(tokens, i) {
			valence *= negationDampener
		}

		sum += valence
		if valence > 0 {
			sumPos += valence + 1
		} else if valence < 0 {
			sumNeg += -valence + 1
		} else {
			neutralCount++
		}
	}

	sum += exclamationEmphasis(text, sum)

	compound := sum / math.Sqrt(sum*sum+normAlpha)
	compound = math.Max(-1, math.Min(1, compound))

	total := sumPos + sumNeg + float64(neutralCount)
	score := domain.SentimentScore{Compound: compound}
	if total > 0 {
		score.Positive = sumPos / total
		score.Negative = sumNeg / total
		score.Neutral = float64(neutralCount) / total
	}
	return score
}

// boost sums booster contributions from up to three preceding tokens,
// signed to match and decayed by distance.
func (s *Scorer) boost(tokens []string, i int, valence float64) float64 {
	var total float64
	for d, decay := range boosterDecay {
		j := i - d - 1
		if j < 0 {
			break
		}
		b, ok := s.boosters[tokens[j]]
		if !ok {
			continue
		}
		if valence < 0 {
			b = -b
		}
		total += b * decay
	}
	return total
}

// negated reports whether a negation token appears within the three tokens
// preceding position i.
func (s *Scorer) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-3; j-- {
		if _, ok := s.negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

// exclamationEmphasis amplifies the raw sum for exclamation marks anywhere
// in the text, capped at four, in the direction the text already leans.
func exclamationEmphasis(text string, sum float64) float64 {
	count := strings.Count(text, "!")
	if count > 4 {
		count = 4
	}
	emphasis := float64(count) * exclamationBoost
	if sum < 0 {
		return -emphasis
	}
	if sum == 0 {
		return 0
	}
	return emphasis
}
