package domain

// SummaryResult is the batch summary: extracted representative sentences
// plus independently extracted key phrases. Degraded marks a summary built
// by plain truncation after the ranking capability failed.
type SummaryResult struct {
	SummaryText string   `json:"summary_text"`
	KeyPhrases  []string `json:"key_phrases"`
	Degraded    bool     `json:"degraded,omitempty"`
}
