// Package pipeline orchestrates the feedback analysis stages: validation,
// concurrent sentiment and topic analysis, optional summarization, and
// synthesis into one immutable report per run.
package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/metrics"
)

// Service is the pipeline orchestrator, the single entry point of the
// analysis core. Stateless across runs: concurrent Run calls for different
// batches share nothing mutable beyond the id generator.
type Service struct {
	normalizer  Normalizer
	scorer      Scorer
	discoverer  TopicDiscoverer
	summarizer  Summarizer
	synthesizer Synthesizer
	logger      *zap.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a pipeline service.
func New(
	normalizer Normalizer, scorer Scorer, discoverer TopicDiscoverer,
	summarizer Summarizer, synthesizer Synthesizer, logger *zap.Logger,
) *Service {
	return &Service{
		normalizer:  normalizer,
		scorer:      scorer,
		discoverer:  discoverer,
		summarizer:  summarizer,
		synthesizer: synthesizer,
		logger:      logger,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
}

// Run executes the full pipeline for one batch. The input batch is treated
// as read-only; validation works on a copy. On failure the returned error
// is always a *domain.PipelineError naming the stage and a stable kind.
func (s *Service) Run(
	ctx context.Context, batch *domain.FeedbackBatch, opts domain.AnalysisOptions,
) (domain.AnalysisReport, error) {
	if err := opts.Validate(); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnalysisReport{}, domain.NewPipelineError(
			domain.StageConfigure, domain.KindConfiguration, err)
	}

	logger := s.logger.With(zap.String("batch_id", batch.BatchID))
	logger.Info("Pipeline run started",
		zap.Int("submitted_items", len(batch.Items)),
	)

	working, _ := s.validate(batch)
	metrics.PipelineBatchSize.Observe(float64(working.ValidCount))

	if working.ValidCount == 0 {
		logger.Info("No valid items, producing degenerate report",
			zap.Int("invalid_count", working.InvalidCount),
		)
		report := s.assemble(&working, domain.SentimentAggregate{},
			domain.TopicsInsufficient("no valid feedback items"), nil)
		metrics.PipelineRunsTotal.WithLabelValues("complete").Inc()
		return report, nil
	}

	if err := s.checkCancelled(ctx, domain.StageAnalyze); err != nil {
		return domain.AnalysisReport{}, err
	}

	agg, topicsRes, err := s.analyze(ctx, &working, opts)
	if err != nil {
		logger.Error("Pipeline analysis failed", zap.Error(err))
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnalysisReport{}, err
	}

	if err := s.checkCancelled(ctx, domain.StageSynthesize); err != nil {
		return domain.AnalysisReport{}, err
	}

	var summary *domain.SummaryResult
	if opts.IncludeSummary {
		start := time.Now()
		sum := s.summarizer.Summarize(ctx, working.Texts(), opts.MaxSummarySentences)
		metrics.PipelineStageDuration.WithLabelValues("summarize").Observe(time.Since(start).Seconds())
		summary = &sum
	}

	start := time.Now()
	report := s.assemble(&working, agg, topicsRes, summary)
	metrics.PipelineStageDuration.WithLabelValues("synthesize").Observe(time.Since(start).Seconds())

	metrics.PipelineRunsTotal.WithLabelValues("complete").Inc()
	logger.Info("Pipeline run complete",
		zap.String("report_id", report.ReportID),
		zap.Int("valid_count", report.ValidCount),
		zap.Int("invalid_count", report.InvalidCount),
		zap.String("topic_status", string(report.Topics.Status)),
	)
	return report, nil
}

// validate normalizes every submitted item into a working copy of the
// batch. Invalid items are excluded and counted on top of rejections the
// batch already carries from intake; duplicate normalized texts are
// flagged, not removed. Duplicates are recomputed from the retained
// items, so a pre-partitioned batch keeps the same duplicate count.
func (s *Service) validate(batch *domain.FeedbackBatch) (domain.FeedbackBatch, []domain.InvalidItem) {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("validate").Observe(time.Since(start).Seconds())
	}()

	working := domain.FeedbackBatch{
		BatchID:   batch.BatchID,
		CreatedAt: batch.CreatedAt,
	}
	var invalid []domain.InvalidItem
	seen := make(map[string]struct{}, len(batch.Items))

	for _, item := range batch.Items {
		normalized, err := s.normalizer.Normalize(item.RawText)
		if err != nil {
			reason := domain.ReasonEmpty
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				reason = vErr.Reason
			}
			metrics.PipelineItemsRejected.WithLabelValues(reason).Inc()
			invalid = append(invalid, domain.InvalidItem{RawText: item.RawText, Reason: reason})
			continue
		}

		dupKey := strings.ToLower(normalized)
		if _, dup := seen[dupKey]; dup {
			working.DuplicateCount++
		} else {
			seen[dupKey] = struct{}{}
		}

		item.NormalizedText = normalized
		working.Items = append(working.Items, item)
	}

	working.ValidCount = len(working.Items)
	working.InvalidCount = batch.InvalidCount + len(invalid)
	return working, invalid
}

// analyze runs sentiment scoring and topic discovery concurrently; both
// complete before synthesis starts. A scorer failure is a required-stage
// capability failure and halts the run.
func (s *Service) analyze(
	ctx context.Context, batch *domain.FeedbackBatch, opts domain.AnalysisOptions,
) (domain.SentimentAggregate, domain.TopicResult, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	}()

	texts := batch.Texts()

	var (
		wg        sync.WaitGroup
		scores    []domain.SentimentScore
		scoreErr  error
		topicsRes domain.TopicResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		scores, scoreErr = s.scorer.ScoreAll(ctx, texts)
	}()
	go func() {
		defer wg.Done()
		if !opts.IncludeTopics {
			topicsRes = domain.TopicsInsufficient("topic discovery disabled by options")
			return
		}
		topicsRes = s.discoverer.Discover(ctx, texts, opts)
	}()
	wg.Wait()

	if scoreErr != nil {
		return domain.SentimentAggregate{}, domain.TopicResult{}, domain.NewPipelineError(
			domain.StageAnalyze, domain.KindCapabilityFailure,
			fmt.Errorf("sentiment scoring: %w", scoreErr))
	}

	return s.scorer.Aggregate(scores, opts.SentimentThreshold), topicsRes, nil
}

// assemble builds the final immutable report for the batch.
func (s *Service) assemble(
	batch *domain.FeedbackBatch,
	agg domain.SentimentAggregate,
	topics domain.TopicResult,
	summary *domain.SummaryResult,
) domain.AnalysisReport {
	insights, recommendations := s.synthesizer.Synthesize(batch, agg, topics, summary)

	report := domain.AnalysisReport{
		ReportID:        s.newID(),
		BatchID:         batch.BatchID,
		Sentiment:       agg,
		Topics:          topics,
		Summary:         summary,
		KeyInsights:     insights,
		Recommendations: recommendations,
		ValidCount:      batch.ValidCount,
		InvalidCount:    batch.InvalidCount,
		DuplicateCount:  batch.DuplicateCount,
		GeneratedAt:     time.Now().UTC(),
	}
	report.ExecutiveSummary = s.synthesizer.ExecutiveSummary(&report)
	return report
}

// checkCancelled enforces the stage-boundary cancellation contract: a
// cancelled run yields no partial report.
func (s *Service) checkCancelled(ctx context.Context, nextStage string) error {
	if err := ctx.Err(); err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("cancelled").Inc()
		return domain.NewPipelineError(nextStage, domain.KindCancelled, err)
	}
	return nil
}

func (s *Service) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
