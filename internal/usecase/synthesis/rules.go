package synthesis

// RuleSet holds the thresholds that turn batch aggregates into insights
// and recommendations. Shares are fractions of the valid item count.
type RuleSet struct {
	// MixedShare fires the mixed-feedback insight when the positive and
	// negative shares are both at or above it.
	MixedShare float64
	// DominantShare fires the dominant-sentiment insight when any class
	// share exceeds it.
	DominantShare float64
	// TestimonialShare fires the testimonial recommendation when the
	// positive share exceeds it.
	TestimonialShare float64
	// InvestigateShare fires the priority-investigation recommendation
	// when the negative share exceeds it.
	InvestigateShare float64
	// DominantTopicShare fires the focused-investigation recommendation
	// when the largest topic covers more than this share of the batch.
	DominantTopicShare float64
	// TopThemes caps how many topics are surfaced as theme insights.
	TopThemes int
}

// DefaultRuleSet returns the documented default thresholds.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		MixedShare:         0.30,
		DominantShare:      0.50,
		TestimonialShare:   0.60,
		InvestigateShare:   0.30,
		DominantTopicShare: 0.40,
		TopThemes:          3,
	}
}
