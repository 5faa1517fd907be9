// Package insight is an embedded client for the feedback analysis engine:
// it connects straight to Redis and runs the analysis pipeline in process,
// without the HTTP API server.
package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/db"
	dbRedis "github.com/kailas-cloud/insight/internal/db/redis"
	"github.com/kailas-cloud/insight/internal/domain"
	feedbackrepo "github.com/kailas-cloud/insight/internal/repository/feedback"
	reportrepo "github.com/kailas-cloud/insight/internal/repository/report"
	semindexrepo "github.com/kailas-cloud/insight/internal/repository/semindex"
	semindexuc "github.com/kailas-cloud/insight/internal/usecase/semindex"
)

const defaultReadinessTimeout = 10 * time.Second

// Sentinel errors surfaced by the client.
var (
	ErrBatchNotFound  = domain.ErrBatchNotFound
	ErrReportNotFound = domain.ErrReportNotFound
	ErrSearchDisabled = errors.New("insight: semantic search requires an embedder (use WithEmbedder)")
)

// Client is the insight embedded client.
type Client struct {
	store    db.Store
	analyzer *Analyzer
	feedback *feedbackrepo.Repo
	reports  *reportrepo.Repo
	index    *semindexuc.Service
	logger   *zap.Logger
}

// New creates a Client and connects to the database. The provided context
// is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("insight: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("insight: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("insight: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	c := &Client{
		store:    store,
		analyzer: NewAnalyzer(cfg.minWordCount, cfg.logger),
		feedback: feedbackrepo.New(store),
		reports:  reportrepo.New(store),
		logger:   cfg.logger,
	}

	if cfg.embedder != nil {
		indexRepo := semindexrepo.New(store, cfg.dimensions)
		if cfg.hnswM > 0 || cfg.hnswEF > 0 {
			indexRepo = indexRepo.WithHNSW(semindexrepo.HNSWConfig{
				M:           cfg.hnswM,
				EFConstruct: cfg.hnswEF,
			})
		}
		c.index = semindexuc.New(indexRepo, &embedderAdapter{inner: cfg.embedder}, cfg.logger)
	}

	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SubmitFeedback validates and stores a batch of feedback texts. metadata
// is positional and may be nil. Indexing for semantic search is best
// effort and never fails the submission.
func (c *Client) SubmitFeedback(
	ctx context.Context, texts []string, metadata []map[string]string,
) (BatchSummary, error) {
	if len(texts) == 0 {
		return BatchSummary{}, errors.New("insight: texts must not be empty")
	}

	batch, invalid := c.analyzer.normalizer.Partition(c.analyzer.newID(), texts, metadata)

	if err := c.feedback.Save(ctx, &batch); err != nil {
		return BatchSummary{}, fmt.Errorf("insight: save batch: %w", err)
	}

	if c.index != nil && batch.ValidCount > 0 {
		if err := c.index.Index(ctx, &batch); err != nil {
			c.logger.Warn("Semantic indexing failed",
				zap.String("batch_id", batch.BatchID), zap.Error(err))
		}
	}

	return batchSummaryFromDomain(&batch, invalid), nil
}

// Analyze runs the pipeline over a stored batch and persists the report.
func (c *Client) Analyze(ctx context.Context, batchID string, opts Options) (Report, error) {
	batch, err := c.feedback.Get(ctx, batchID)
	if err != nil {
		return Report{}, fmt.Errorf("insight: load batch: %w", err)
	}

	report, err := c.analyzer.pipeline.Run(ctx, batch, optionsToDomain(opts))
	if err != nil {
		return Report{}, fmt.Errorf("insight: analyze: %w", err)
	}

	if err := c.reports.Save(ctx, &report); err != nil {
		return Report{}, fmt.Errorf("insight: save report: %w", err)
	}

	return reportFromDomain(&report), nil
}

// AnalyzeTexts runs a one-shot analysis without persisting anything.
func (c *Client) AnalyzeTexts(ctx context.Context, texts []string, opts Options) (Report, error) {
	return c.analyzer.Analyze(ctx, texts, opts)
}

// GetReport loads a stored analysis report.
func (c *Client) GetReport(ctx context.Context, reportID string) (Report, error) {
	report, err := c.reports.Get(ctx, reportID)
	if err != nil {
		return Report{}, fmt.Errorf("insight: load report: %w", err)
	}
	return reportFromDomain(report), nil
}

// Reports lists the most recent reports, newest first.
func (c *Client) Reports(ctx context.Context, limit int) ([]Report, error) {
	reports, err := c.reports.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("insight: list reports: %w", err)
	}
	out := make([]Report, len(reports))
	for i, r := range reports {
		out[i] = reportFromDomain(r)
	}
	return out, nil
}

// Search returns the k nearest feedback items to the query text,
// optionally scoped to one batch.
func (c *Client) Search(
	ctx context.Context, query string, k int, batchID string,
) ([]SearchHit, error) {
	if c.index == nil {
		return nil, ErrSearchDisabled
	}
	neighbors, err := c.index.Query(ctx, query, k, batchID)
	if err != nil {
		return nil, fmt.Errorf("insight: search: %w", err)
	}
	return hitsFromDomain(neighbors), nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
