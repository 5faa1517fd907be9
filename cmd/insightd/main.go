package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/config"
	"github.com/kailas-cloud/insight/internal/db"
	dbRedis "github.com/kailas-cloud/insight/internal/db/redis"
	"github.com/kailas-cloud/insight/internal/domain"
	logpkg "github.com/kailas-cloud/insight/internal/logger"
	"github.com/kailas-cloud/insight/internal/metrics"
	"github.com/kailas-cloud/insight/internal/nlp/cluster"
	"github.com/kailas-cloud/insight/internal/nlp/extract"
	"github.com/kailas-cloud/insight/internal/nlp/lexicon"
	budgetrepo "github.com/kailas-cloud/insight/internal/repository/budget"
	"github.com/kailas-cloud/insight/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/insight/internal/repository/feedback"
	reportrepo "github.com/kailas-cloud/insight/internal/repository/report"
	semindexrepo "github.com/kailas-cloud/insight/internal/repository/semindex"
	chiTransport "github.com/kailas-cloud/insight/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/insight/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/insight/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/insight/internal/usecase/health"
	normalizeuc "github.com/kailas-cloud/insight/internal/usecase/normalize"
	pipelineuc "github.com/kailas-cloud/insight/internal/usecase/pipeline"
	semindexuc "github.com/kailas-cloud/insight/internal/usecase/semindex"
	sentimentuc "github.com/kailas-cloud/insight/internal/usecase/sentiment"
	summarizeuc "github.com/kailas-cloud/insight/internal/usecase/summarize"
	synthesisuc "github.com/kailas-cloud/insight/internal/usecase/synthesis"
	topicsuc "github.com/kailas-cloud/insight/internal/usecase/topics"
	"github.com/kailas-cloud/insight/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting insight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()
	metrics.RegisterEmbeddingMetrics()

	// Analysis capabilities -- deterministic in-process implementations
	normalizeSvc := normalizeuc.New(cfg.Pipeline.MinWordCount)
	sentimentSvc := sentimentuc.New(lexicon.New())
	topicsSvc := topicsuc.New(
		cluster.New().WithRepresentativeDocs(cfg.Pipeline.RepresentativeDocs), logger)
	summarizeSvc := summarizeuc.New(extract.New(), extract.New(), logger)
	synthesisSvc := synthesisuc.New(synthesisuc.DefaultRuleSet())

	pipelineSvc := pipelineuc.New(
		normalizeSvc, sentimentSvc, topicsSvc, summarizeSvc, synthesisSvc, logger,
	)

	// Persistence
	feedbackRepo := feedbackrepo.New(store)
	reportRepo := reportrepo.New(store)

	// Semantic index -- optional, only when an embedding model is configured
	var index chiTransport.Indexer
	var embChecker healthuc.EmbeddingChecker
	if cfg.Embedding.Model != "" {
		embedder := buildEmbedder(ctx, cfg, store, logger)
		indexRepo := semindexrepo.New(store, cfg.Embedding.Dimensions).
			WithHNSW(semindexrepo.HNSWConfig{
				M:           cfg.Index.HNSWM,
				EFConstruct: cfg.Index.HNSWEFConstruct,
			})
		index = semindexuc.New(indexRepo, embedder, logger)
		embChecker = newEmbeddingHealthChecker(embedder)
		logger.Info("Semantic index enabled",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Info("Semantic index disabled, no embedding model configured")
	}

	healthSvc := healthuc.New(store, embChecker)

	server := chiTransport.NewServer(
		normalizeSvc, pipelineSvc, feedbackRepo, reportRepo,
		index, healthSvc, cfg.AnalysisDefaults(), logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented
func buildEmbedder(
	ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = embcache.New(
		base, store, time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)

	// Single BudgetTracker with write-behind persistence.
	budgetCfg := cfg.Embedding.Budget
	var budgetChecker embeddinguc.BudgetChecker
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget := embeddinguc.NewBudgetTracker(
			cfg.Embedding.Provider,
			budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit,
			action, logger,
		)
		// Connect persistence store -- loads current counters from DB.
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		budgetChecker = budget
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, budgetChecker, logger,
	)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line -- one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
