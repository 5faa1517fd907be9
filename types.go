package insight

import (
	"context"
	"time"
)

// Options controls one analysis run. Use DefaultOptions and override
// fields; the zero value is rejected.
type Options struct {
	IncludeSummary      bool
	IncludeTopics       bool
	MaxTopics           int
	MinTopicSize        int
	MinBatchSize        int
	MaxSummarySentences int
	SentimentThreshold  float64
}

// DefaultOptions returns the documented default analysis options.
func DefaultOptions() Options {
	return Options{
		IncludeSummary:      true,
		IncludeTopics:       true,
		MaxTopics:           10,
		MinTopicSize:        5,
		MinBatchSize:        5,
		MaxSummarySentences: 5,
		SentimentThreshold:  0.05,
	}
}

// SentimentSummary is the batch-level sentiment aggregate.
type SentimentSummary struct {
	AverageCompound float64
	AveragePositive float64
	AverageNegative float64
	AverageNeutral  float64
	PositiveCount   int
	NeutralCount    int
	NegativeCount   int
}

// Topic is a cluster of related feedback with a keyword signature.
type Topic struct {
	ID       int
	Keywords []string
	Size     int
	Examples []string
}

// Summary is the extractive batch summary.
type Summary struct {
	Text       string
	KeyPhrases []string
	Degraded   bool
}

// Report is the result of one analysis run.
type Report struct {
	ReportID         string
	BatchID          string
	Sentiment        SentimentSummary
	Topics           []Topic
	TopicsFound      bool
	TopicsMessage    string
	Summary          *Summary
	KeyInsights      []string
	Recommendations  []string
	ExecutiveSummary string
	ValidCount       int
	InvalidCount     int
	DuplicateCount   int
	GeneratedAt      time.Time
}

// Rejection is a submitted text that failed validation.
type Rejection struct {
	Text   string
	Reason string
}

// BatchSummary describes an accepted feedback batch.
type BatchSummary struct {
	BatchID        string
	ValidCount     int
	InvalidCount   int
	DuplicateCount int
	Rejections     []Rejection
}

// SearchHit is one semantic search result.
type SearchHit struct {
	ItemID string
	Score  float64
	Text   string
}

// EmbeddingResult is the output of a single embedding call.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder produces text embeddings for the semantic index.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}
