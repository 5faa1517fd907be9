package semindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/insight/internal/db"
	"github.com/kailas-cloud/insight/internal/domain"
)

// store is the consumer interface for the semantic index (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

const (
	itemPrefix = domain.KeyPrefix + "item:"
	indexName  = domain.KeyPrefix + "items:idx"
)

// Repo implements usecase/semindex.Repository over an FT vector index.
type Repo struct {
	store  store
	dim    int
	hnswM  int
	hnswEF int
}

// HNSWConfig tunes vector index construction parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// New creates a semantic index repository. dim is the embedding dimensionality.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim, hnswM: 16, hnswEF: 200}
}

// WithHNSW overrides the default HNSW parameters. Zero values keep defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnswM = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnswEF = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName, err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(indexName).
		Prefix(itemPrefix).
		Tag("$.batch_id", "batch_id").
		Text("$.text", "text").
		VectorHNSW("$.embedding", "embedding", r.dim, db.DistanceCosine, r.hnswM, r.hnswEF).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// Upsert stores items with their embeddings in a single pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, items []domain.IndexedItem) error {
	if len(items) == 0 {
		return nil
	}

	sets := make([]db.JSONSetItem, 0, len(items))
	for i := range items {
		it := &items[i]
		doc := itemDoc{
			BatchID:   it.BatchID,
			Text:      it.Text,
			Embedding: it.Embedding,
			IndexedAt: time.Now().UTC().Format(time.RFC3339),
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", it.ItemID, err)
		}
		sets = append(sets, db.JSONSetItem{Key: itemKey(it.ItemID), Path: "$", Data: data})
	}

	if err := r.store.JSONSetMulti(ctx, sets); err != nil {
		return fmt.Errorf("json.set items: %w", err)
	}
	return nil
}

// Delete removes a single indexed item.
func (r *Repo) Delete(ctx context.Context, itemID string) error {
	if err := r.store.Del(ctx, itemKey(itemID)); err != nil {
		return fmt.Errorf("del %s: %w", itemKey(itemID), err)
	}
	return nil
}

// Query runs a KNN search and returns neighbors ordered by similarity
// descending, ties broken by item ID. batchID narrows the search when set.
// An index with no documents yields an empty result, not an error.
func (r *Repo) Query(ctx context.Context, vector []float32, k int, batchID string) ([]domain.Neighbor, error) {
	q := &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__embedding_score", "text", "batch_id"},
	}
	if batchID != "" {
		q.Filter = db.TagFilter("batch_id", batchID)
	}

	result, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if isMissingIndex(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("knn search: %w", err)
	}

	neighbors := make([]domain.Neighbor, 0, len(result.Entries))
	for _, entry := range result.Entries {
		neighbors = append(neighbors, domain.Neighbor{
			ItemID: strings.TrimPrefix(entry.Key, itemPrefix),
			Score:  entry.Score,
			Text:   entry.Fields["text"],
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Score != neighbors[j].Score {
			return neighbors[i].Score > neighbors[j].Score
		}
		return neighbors[i].ItemID < neighbors[j].ItemID
	})

	return neighbors, nil
}

func itemKey(itemID string) string {
	return itemPrefix + itemID
}

// isMissingIndex detects FT.SEARCH against an index that was never created.
func isMissingIndex(err error) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	msg := strings.ToLower(dbErr.Err.Error())
	return strings.Contains(msg, "no such index") || strings.Contains(msg, "unknown index")
}
