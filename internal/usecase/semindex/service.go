// Package semindex embeds feedback items into the vector index and serves
// nearest-neighbor retrieval over them.
package semindex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
)

// DefaultK is the neighbor count when the caller does not specify one.
const DefaultK = 10

// Service composes the embedder with the vector index repository.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates a semantic index service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Index embeds every valid item of the batch and upserts the vectors.
// An empty batch is a no-op.
func (s *Service) Index(ctx context.Context, batch *domain.FeedbackBatch) error {
	if len(batch.Items) == 0 {
		return nil
	}

	if err := s.repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	result, err := domain.EmbedAll(ctx, s.embed, batch.Texts())
	if err != nil {
		return fmt.Errorf("embed batch %s: %w", batch.BatchID, err)
	}
	if len(result.Embeddings) != len(batch.Items) {
		return fmt.Errorf("embed batch %s: got %d vectors for %d items",
			batch.BatchID, len(result.Embeddings), len(batch.Items))
	}

	items := make([]domain.IndexedItem, len(batch.Items))
	for i, it := range batch.Items {
		text := it.NormalizedText
		if text == "" {
			text = it.RawText
		}
		items[i] = domain.IndexedItem{
			ItemID:    it.ID,
			BatchID:   batch.BatchID,
			Text:      text,
			Embedding: result.Embeddings[i],
		}
	}

	if err := s.repo.Upsert(ctx, items); err != nil {
		return fmt.Errorf("upsert batch %s: %w", batch.BatchID, err)
	}

	s.logger.Debug("Batch indexed",
		zap.String("batch_id", batch.BatchID),
		zap.Int("items", len(items)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return nil
}

// Remove deletes one item from the index.
func (s *Service) Remove(ctx context.Context, itemID string) error {
	return s.repo.Delete(ctx, itemID)
}

// Query embeds the text and returns up to k nearest neighbors, optionally
// restricted to one batch. Querying before anything was indexed returns an
// empty result.
func (s *Service) Query(
	ctx context.Context, text string, k int, batchID string,
) ([]domain.Neighbor, error) {
	if text == "" {
		return nil, fmt.Errorf("query text must not be empty")
	}
	if k <= 0 {
		k = DefaultK
	}

	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := s.repo.Query(ctx, result.Embedding, k, batchID)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return neighbors, nil
}
