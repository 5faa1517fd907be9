// Package synthesis converts batch aggregates into human-readable
// insights and recommendations.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Service is the synthesis stage. Pure: the rule set is fixed at
// construction and every call is deterministic in its inputs.
type Service struct {
	rules RuleSet
}

// New creates a synthesis service with the given rule set.
func New(rules RuleSet) *Service {
	if rules.TopThemes <= 0 {
		rules.TopThemes = DefaultRuleSet().TopThemes
	}
	return &Service{rules: rules}
}

// Synthesize applies the rule set to the sentiment aggregate and topic
// result, producing key insights and recommendations. The summary only
// contributes through the report; it carries no rules of its own.
func (s *Service) Synthesize(
	batch *domain.FeedbackBatch,
	agg domain.SentimentAggregate,
	topics domain.TopicResult,
	_ *domain.SummaryResult,
) (insights, recommendations []string) {
	insights = []string{}
	recommendations = []string{}

	if batch.ValidCount == 0 {
		insights = append(insights, "No valid feedback items to analyze.")
		recommendations = append(recommendations, "Continue monitoring feedback trends.")
		return insights, recommendations
	}

	posShare := agg.Distribution.Share(domain.ClassPositive)
	negShare := agg.Distribution.Share(domain.ClassNegative)
	neutralShare := agg.Distribution.Share(domain.ClassNeutral)

	if posShare >= s.rules.MixedShare && negShare >= s.rules.MixedShare {
		insights = append(insights, fmt.Sprintf(
			"Mixed feedback: %.0f%% positive vs %.0f%% negative.", posShare*100, negShare*100))
	}
	switch {
	case posShare > s.rules.DominantShare:
		insights = append(insights, fmt.Sprintf(
			"Feedback is predominantly positive (%.0f%%).", posShare*100))
	case negShare > s.rules.DominantShare:
		insights = append(insights, fmt.Sprintf(
			"Feedback is predominantly negative (%.0f%%).", negShare*100))
	case neutralShare > s.rules.DominantShare:
		insights = append(insights, fmt.Sprintf(
			"Feedback is predominantly neutral (%.0f%%).", neutralShare*100))
	}

	for i, topic := range topics.Topics {
		if i >= s.rules.TopThemes {
			break
		}
		insights = append(insights, fmt.Sprintf(
			"Recurring theme: %s (%d items).", themeLabel(topic), topic.Size))
	}

	if posShare > s.rules.TestimonialShare {
		recommendations = append(recommendations,
			"Collect testimonials from satisfied customers.")
	}
	if negShare > s.rules.InvestigateShare {
		recommendations = append(recommendations,
			"Prioritize investigation of negative feedback drivers.")
	}
	if len(topics.Topics) > 0 {
		top := topics.Topics[0]
		if share := float64(top.Size) / float64(batch.ValidCount); share > s.rules.DominantTopicShare {
			recommendations = append(recommendations, fmt.Sprintf(
				"Focus investigation on the dominant theme %s covering %.0f%% of feedback.",
				themeLabel(top), share*100))
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Continue monitoring feedback trends.")
	}

	return insights, recommendations
}

// ExecutiveSummary assembles a one-paragraph overview from report counts
// and the top insights.
func (s *Service) ExecutiveSummary(report *domain.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %d feedback items", report.ValidCount)
	if report.InvalidCount > 0 {
		fmt.Fprintf(&b, " (%d rejected)", report.InvalidCount)
	}
	fmt.Fprintf(&b, ". Average sentiment %.2f (%s).",
		report.Sentiment.AverageCompound, overallTone(report.Sentiment.AverageCompound))

	if report.Topics.Status == domain.TopicStatusOK {
		fmt.Fprintf(&b, " %d themes discovered.", report.Topics.NumTopics)
	}

	for i, insight := range report.KeyInsights {
		if i >= 2 {
			break
		}
		b.WriteString(" " + insight)
	}
	return b.String()
}

func overallTone(compound float64) string {
	switch {
	case compound > domain.DefaultSentimentThreshold:
		return "positive"
	case compound < -domain.DefaultSentimentThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// themeLabel renders a topic as its first few keywords.
func themeLabel(topic domain.Topic) string {
	keywords := topic.Keywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	if len(keywords) == 0 {
		return fmt.Sprintf("topic %d", topic.TopicID)
	}
	return "\"" + strings.Join(keywords, ", ") + "\""
}
