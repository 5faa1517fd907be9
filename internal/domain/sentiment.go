package domain

// SentimentScore is a per-item emotion score vector. Compound is a single
// normalized intensity in [-1, 1]; Positive, Negative and Neutral are
// proportions in [0, 1].
type SentimentScore struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// SentimentClass is the polarity bucket of a single score.
type SentimentClass string

// Polarity classes derived from the compound score.
const (
	ClassPositive SentimentClass = "positive"
	ClassNeutral  SentimentClass = "neutral"
	ClassNegative SentimentClass = "negative"
)

// DefaultSentimentThreshold is the compound magnitude separating neutral
// from polarized feedback.
const DefaultSentimentThreshold = 0.05

// Classify buckets the score by compound using strict inequalities: a
// compound exactly at either threshold boundary counts as neutral.
func (s SentimentScore) Classify(threshold float64) SentimentClass {
	switch {
	case s.Compound > threshold:
		return ClassPositive
	case s.Compound < -threshold:
		return ClassNegative
	default:
		return ClassNeutral
	}
}

// SentimentDistribution counts items per polarity class.
type SentimentDistribution struct {
	PositiveCount int `json:"positive_count"`
	NeutralCount  int `json:"neutral_count"`
	NegativeCount int `json:"negative_count"`
}

// Total returns the number of classified items.
func (d SentimentDistribution) Total() int {
	return d.PositiveCount + d.NeutralCount + d.NegativeCount
}

// Share returns the fraction of items in the given class, 0 for an empty
// distribution.
func (d SentimentDistribution) Share(class SentimentClass) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	var count int
	switch class {
	case ClassPositive:
		count = d.PositiveCount
	case ClassNegative:
		count = d.NegativeCount
	default:
		count = d.NeutralCount
	}
	return float64(count) / float64(total)
}

// SentimentAggregate is the batch-level sentiment summary: arithmetic means
// of each score field plus the polarity distribution. All fields are zero
// for an empty batch, which is a defined boundary case rather than an error.
type SentimentAggregate struct {
	AverageCompound float64               `json:"average_compound"`
	AveragePositive float64               `json:"average_positive"`
	AverageNegative float64               `json:"average_negative"`
	AverageNeutral  float64               `json:"average_neutral"`
	Distribution    SentimentDistribution `json:"distribution"`
}
