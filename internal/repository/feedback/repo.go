package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/insight/internal/db"
	"github.com/kailas-cloud/insight/internal/domain"
)

const batchPrefix = domain.KeyPrefix + "batch:"

// store is the consumer interface for feedback batches (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo persists feedback batches as RedisJSON documents.
type Repo struct {
	store store
}

// New creates a feedback batch repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save stores a batch, overwriting any previous version.
func (r *Repo) Save(ctx context.Context, batch *domain.FeedbackBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch %s: %w", batch.BatchID, err)
	}
	key := batchKey(batch.BatchID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a batch by ID.
func (r *Repo) Get(ctx context.Context, batchID string) (*domain.FeedbackBatch, error) {
	key := batchKey(batchID)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseBatchResult(raw)
}

// Delete removes a batch.
func (r *Repo) Delete(ctx context.Context, batchID string) error {
	key := batchKey(batchID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrBatchNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func batchKey(batchID string) string {
	return batchPrefix + batchID
}

// parseBatchResult handles both the bare-object and the `$`-wrapped array
// forms JSON.GET can return.
func parseBatchResult(raw []byte) (*domain.FeedbackBatch, error) {
	var batch domain.FeedbackBatch
	if err := json.Unmarshal(raw, &batch); err == nil && batch.BatchID != "" {
		return &batch, nil
	}

	var batches []domain.FeedbackBatch
	if err := json.Unmarshal(raw, &batches); err != nil {
		return nil, fmt.Errorf("unmarshal batch: %w", err)
	}
	if len(batches) == 0 {
		return nil, domain.ErrBatchNotFound
	}
	return &batches[0], nil
}
