package insight

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/nlp/cluster"
	"github.com/kailas-cloud/insight/internal/nlp/extract"
	"github.com/kailas-cloud/insight/internal/nlp/lexicon"
	normalizeuc "github.com/kailas-cloud/insight/internal/usecase/normalize"
	pipelineuc "github.com/kailas-cloud/insight/internal/usecase/pipeline"
	sentimentuc "github.com/kailas-cloud/insight/internal/usecase/sentiment"
	summarizeuc "github.com/kailas-cloud/insight/internal/usecase/summarize"
	synthesisuc "github.com/kailas-cloud/insight/internal/usecase/synthesis"
	topicsuc "github.com/kailas-cloud/insight/internal/usecase/topics"
)

// Analyzer runs the full analysis pipeline in process, without any
// external dependency. It is safe for concurrent use.
type Analyzer struct {
	normalizer *normalizeuc.Service
	pipeline   *pipelineuc.Service

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewAnalyzer builds an analyzer with the default deterministic
// capabilities. minWordCount <= 0 uses the default of 3; a nil logger
// disables logging.
func NewAnalyzer(minWordCount int, logger *zap.Logger) *Analyzer {
	if minWordCount <= 0 {
		minWordCount = normalizeuc.DefaultMinWordCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	normalizer := normalizeuc.New(minWordCount)
	pipeline := pipelineuc.New(
		normalizer,
		sentimentuc.New(lexicon.New()),
		topicsuc.New(cluster.New(), logger),
		summarizeuc.New(extract.New(), extract.New(), logger),
		synthesisuc.New(synthesisuc.DefaultRuleSet()),
		logger,
	)

	return &Analyzer{
		normalizer: normalizer,
		pipeline:   pipeline,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
}

// Analyze runs one pipeline pass over the given texts and returns the
// report. Invalid texts are excluded and counted, never failing the run.
func (a *Analyzer) Analyze(ctx context.Context, texts []string, opts Options) (Report, error) {
	batch, _ := a.normalizer.Partition(a.newID(), texts, nil)

	report, err := a.pipeline.Run(ctx, &batch, optionsToDomain(opts))
	if err != nil {
		return Report{}, fmt.Errorf("insight: analyze: %w", err)
	}
	return reportFromDomain(&report), nil
}

func (a *Analyzer) newID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Now(), a.entropy).String()
}
