package domain

import "time"

// AnalysisReport is the terminal artifact of one pipeline run. It is
// immutable once produced; re-analysis of the same batch yields a new
// report with a new ReportID and GeneratedAt.
type AnalysisReport struct {
	ReportID         string             `json:"report_id"`
	BatchID          string             `json:"batch_id"`
	Sentiment        SentimentAggregate `json:"sentiment"`
	Topics           TopicResult        `json:"topics"`
	Summary          *SummaryResult     `json:"summary,omitempty"`
	KeyInsights      []string           `json:"key_insights"`
	Recommendations  []string           `json:"recommendations"`
	ExecutiveSummary string             `json:"executive_summary,omitempty"`
	ValidCount       int                `json:"valid_count"`
	InvalidCount     int                `json:"invalid_count"`
	DuplicateCount   int                `json:"duplicate_count,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}
