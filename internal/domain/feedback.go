package domain

import "time"

// KeyPrefix namespaces all Redis keys written by this service.
const KeyPrefix = "insight:"

// FeedbackItem is a single piece of free-text feedback.
// NormalizedText is derived once during validation and never mutated after
// the pipeline consumes the item.
type FeedbackItem struct {
	ID             string            `json:"id"`
	RawText        string            `json:"raw_text"`
	NormalizedText string            `json:"normalized_text,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// InvalidItem records a submitted text that failed validation, with the
// stable rejection reason.
type InvalidItem struct {
	RawText string `json:"raw_text"`
	Reason  string `json:"reason"`
}

// FeedbackBatch is a named collection of feedback items submitted together.
// Items holds only the entries that passed validation; ValidCount plus
// InvalidCount always equals the number of submitted texts. The batch is
// owned by the caller and treated as read-only by the pipeline.
type FeedbackBatch struct {
	BatchID        string         `json:"batch_id"`
	Items          []FeedbackItem `json:"items"`
	ValidCount     int            `json:"valid_count"`
	InvalidCount   int            `json:"invalid_count"`
	DuplicateCount int            `json:"duplicate_count"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Texts returns the normalized texts of all items, falling back to raw text
// for items that have not been normalized yet.
func (b *FeedbackBatch) Texts() []string {
	texts := make([]string, len(b.Items))
	for i, it := range b.Items {
		if it.NormalizedText != "" {
			texts[i] = it.NormalizedText
		} else {
			texts[i] = it.RawText
		}
	}
	return texts
}
