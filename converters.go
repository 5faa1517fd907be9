package insight

import (
	"github.com/kailas-cloud/insight/internal/domain"
)

func optionsToDomain(o Options) domain.AnalysisOptions {
	return domain.AnalysisOptions{
		IncludeSummary:      o.IncludeSummary,
		IncludeTopics:       o.IncludeTopics,
		MaxTopics:           o.MaxTopics,
		MinTopicSize:        o.MinTopicSize,
		MinBatchSize:        o.MinBatchSize,
		MaxSummarySentences: o.MaxSummarySentences,
		SentimentThreshold:  o.SentimentThreshold,
	}
}

func reportFromDomain(r *domain.AnalysisReport) Report {
	out := Report{
		ReportID: r.ReportID,
		BatchID:  r.BatchID,
		Sentiment: SentimentSummary{
			AverageCompound: r.Sentiment.AverageCompound,
			AveragePositive: r.Sentiment.AveragePositive,
			AverageNegative: r.Sentiment.AverageNegative,
			AverageNeutral:  r.Sentiment.AverageNeutral,
			PositiveCount:   r.Sentiment.Distribution.PositiveCount,
			NeutralCount:    r.Sentiment.Distribution.NeutralCount,
			NegativeCount:   r.Sentiment.Distribution.NegativeCount,
		},
		TopicsFound:      r.Topics.Status == domain.TopicStatusOK,
		TopicsMessage:    r.Topics.Message,
		KeyInsights:      r.KeyInsights,
		Recommendations:  r.Recommendations,
		ExecutiveSummary: r.ExecutiveSummary,
		ValidCount:       r.ValidCount,
		InvalidCount:     r.InvalidCount,
		DuplicateCount:   r.DuplicateCount,
		GeneratedAt:      r.GeneratedAt,
	}

	out.Topics = make([]Topic, len(r.Topics.Topics))
	for i, t := range r.Topics.Topics {
		out.Topics[i] = Topic{
			ID:       t.TopicID,
			Keywords: t.Keywords,
			Size:     t.Size,
			Examples: t.RepresentativeDocs,
		}
	}

	if r.Summary != nil {
		out.Summary = &Summary{
			Text:       r.Summary.SummaryText,
			KeyPhrases: r.Summary.KeyPhrases,
			Degraded:   r.Summary.Degraded,
		}
	}

	return out
}

func batchSummaryFromDomain(b *domain.FeedbackBatch, invalid []domain.InvalidItem) BatchSummary {
	out := BatchSummary{
		BatchID:        b.BatchID,
		ValidCount:     b.ValidCount,
		InvalidCount:   b.InvalidCount,
		DuplicateCount: b.DuplicateCount,
	}
	for _, item := range invalid {
		out.Rejections = append(out.Rejections, Rejection{Text: item.RawText, Reason: item.Reason})
	}
	return out
}

func hitsFromDomain(neighbors []domain.Neighbor) []SearchHit {
	hits := make([]SearchHit, len(neighbors))
	for i, n := range neighbors {
		hits[i] = SearchHit{ItemID: n.ItemID, Score: n.Score, Text: n.Text}
	}
	return hits
}
