package domain

import "fmt"

// Default analysis option values.
const (
	DefaultMaxTopics           = 10
	DefaultMinTopicSize        = 5
	DefaultMinBatchSize        = 5
	DefaultMaxSummarySentences = 5
	DefaultRepresentativeDocs  = 5
)

// AnalysisOptions controls one pipeline run. Use DefaultAnalysisOptions
// and override fields; the zero value fails validation.
type AnalysisOptions struct {
	IncludeSummary      bool    `json:"include_summary"`
	IncludeTopics       bool    `json:"include_topics"`
	MaxTopics           int     `json:"max_topics"`
	MinTopicSize        int     `json:"min_topic_size"`
	MinBatchSize        int     `json:"min_batch_size"`
	MaxSummarySentences int     `json:"max_summary_sentences"`
	SentimentThreshold  float64 `json:"sentiment_threshold"`
}

// DefaultAnalysisOptions returns the documented defaults.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		IncludeSummary:      true,
		IncludeTopics:       true,
		MaxTopics:           DefaultMaxTopics,
		MinTopicSize:        DefaultMinTopicSize,
		MinBatchSize:        DefaultMinBatchSize,
		MaxSummarySentences: DefaultMaxSummarySentences,
		SentimentThreshold:  DefaultSentimentThreshold,
	}
}

// Validate rejects invalid options before any pipeline stage runs.
// Failures wrap ErrInvalidOptions.
func (o AnalysisOptions) Validate() error {
	if o.MaxTopics <= 0 {
		return fmt.Errorf("max_topics must be positive, got %d: %w", o.MaxTopics, ErrInvalidOptions)
	}
	if o.MinTopicSize <= 0 {
		return fmt.Errorf("min_topic_size must be positive, got %d: %w", o.MinTopicSize, ErrInvalidOptions)
	}
	if o.MinBatchSize <= 0 {
		return fmt.Errorf("min_batch_size must be positive, got %d: %w", o.MinBatchSize, ErrInvalidOptions)
	}
	if o.MaxSummarySentences <= 0 {
		return fmt.Errorf("max_summary_sentences must be positive, got %d: %w", o.MaxSummarySentences, ErrInvalidOptions)
	}
	if o.SentimentThreshold < 0 || o.SentimentThreshold >= 1 {
		return fmt.Errorf("sentiment_threshold must be in [0, 1), got %g: %w", o.SentimentThreshold, ErrInvalidOptions)
	}
	return nil
}
