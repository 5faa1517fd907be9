package chi

import (
	"context"

	"github.com/kailas-cloud/insight/internal/domain"
	healthuc "github.com/kailas-cloud/insight/internal/usecase/health"
)

// Normalizer splits submitted raw texts into valid items and rejections.
type Normalizer interface {
	Partition(batchID string, raws []string, metadata []map[string]string) (domain.FeedbackBatch, []domain.InvalidItem)
}

// Analyzer runs the full analysis pipeline for one batch.
type Analyzer interface {
	Run(ctx context.Context, batch *domain.FeedbackBatch, opts domain.AnalysisOptions) (domain.AnalysisReport, error)
}

// BatchStore persists feedback batches.
type BatchStore interface {
	Save(ctx context.Context, batch *domain.FeedbackBatch) error
	Get(ctx context.Context, batchID string) (*domain.FeedbackBatch, error)
}

// ReportStore persists analysis reports.
type ReportStore interface {
	Save(ctx context.Context, rep *domain.AnalysisReport) error
	Get(ctx context.Context, reportID string) (*domain.AnalysisReport, error)
	List(ctx context.Context, limit int) ([]*domain.AnalysisReport, error)
}

// Indexer maintains the semantic feedback index. Optional: a nil Indexer
// disables indexing and search.
type Indexer interface {
	Index(ctx context.Context, batch *domain.FeedbackBatch) error
	Query(ctx context.Context, text string, k int, batchID string) ([]domain.Neighbor, error)
}

// HealthChecker reports component availability.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
