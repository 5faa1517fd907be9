package semindex

import (
	"context"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Repository is the vector index storage contract.
type Repository interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, items []domain.IndexedItem) error
	Delete(ctx context.Context, itemID string) error
	Query(ctx context.Context, vector []float32, k int, batchID string) ([]domain.Neighbor, error)
}

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
