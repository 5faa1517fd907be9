package chi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
	healthuc "github.com/kailas-cloud/insight/internal/usecase/health"
)

const (
	maxBatchItems          = 1000
	defaultReportListLimit = 20
	maxReportListLimit     = 100

	// Non-standard nginx status for requests abandoned by the client.
	statusClientClosedRequest = 499
)

// Stable error codes returned to API clients.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeBatchNotFound          = "batch_not_found"
	codeReportNotFound         = "report_not_found"
	codePipelineFailed         = "pipeline_failed"
	codeCancelled              = "cancelled"
	codeRateLimited            = "rate_limited"
	codeEmbeddingQuotaExceeded = "embedding_quota_exceeded"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeSearchDisabled         = "semantic_search_disabled"
	codeInternalError          = "internal_error"
)

// errorResponse is the JSON error body for every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the feedback analysis API over chi.
type Server struct {
	normalizer Normalizer
	analyzer   Analyzer
	batches    BatchStore
	reports    ReportStore
	index      Indexer
	health     HealthChecker
	defaults   domain.AnalysisOptions
	logger     *zap.Logger

	errorHandlers []errorHandler

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewServer creates an HTTP API server. index may be nil when the semantic
// index is disabled; search then answers 501.
func NewServer(
	normalizer Normalizer,
	analyzer Analyzer,
	batches BatchStore,
	reports ReportStore,
	index Indexer,
	health HealthChecker,
	defaults domain.AnalysisOptions,
	logger *zap.Logger,
) *Server {
	s := &Server{
		normalizer: normalizer,
		analyzer:   analyzer,
		batches:    batches,
		reports:    reports,
		index:      index,
		health:     health,
		defaults:   defaults,
		logger:     logger,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
	s.errorHandlers = []errorHandler{
		pipelineErrorHandler,
		sentinelHandler(domain.ErrInvalidOptions, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrBatchNotFound, http.StatusNotFound, codeBatchNotFound),
		sentinelHandler(domain.ErrReportNotFound, http.StatusNotFound, codeReportNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Routes registers all API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/feedback", s.CreateFeedbackBatch)
	r.Post("/v1/feedback/{batchID}/analyze", s.AnalyzeBatch)
	r.Get("/v1/reports", s.ListReports)
	r.Get("/v1/reports/{reportID}", s.GetReport)
	r.Post("/v1/search", s.SearchFeedback)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type createBatchRequest struct {
	Texts    []string            `json:"texts"`
	Metadata []map[string]string `json:"metadata,omitempty"`
}

type createBatchResponse struct {
	BatchID        string               `json:"batch_id"`
	ValidCount     int                  `json:"valid_count"`
	InvalidCount   int                  `json:"invalid_count"`
	DuplicateCount int                  `json:"duplicate_count"`
	InvalidItems   []domain.InvalidItem `json:"invalid_items,omitempty"`
}

// CreateFeedbackBatch handles POST /v1/feedback.
func (s *Server) CreateFeedbackBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Texts) == 0 || len(req.Texts) > maxBatchItems {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"texts count must be between 1 and "+strconv.Itoa(maxBatchItems))
		return
	}

	batch, invalid := s.normalizer.Partition(s.newID(), req.Texts, req.Metadata)

	if err := s.batches.Save(r.Context(), &batch); err != nil {
		s.handleDomainError(w, err)
		return
	}

	// Indexing is best effort: semantic retrieval is an optional
	// capability and must not block batch intake.
	if s.index != nil && batch.ValidCount > 0 {
		if err := s.index.Index(r.Context(), &batch); err != nil {
			s.logger.Warn("Semantic indexing failed",
				zap.String("batch_id", batch.BatchID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, createBatchResponse{
		BatchID:        batch.BatchID,
		ValidCount:     batch.ValidCount,
		InvalidCount:   batch.InvalidCount,
		DuplicateCount: batch.DuplicateCount,
		InvalidItems:   invalid,
	})
}

// AnalyzeBatch handles POST /v1/feedback/{batchID}/analyze. An empty body
// runs the server-configured default options; a body with an options
// object overrides individual fields.
func (s *Server) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	opts := s.defaults
	var req struct {
		Options *domain.AnalysisOptions `json:"options"`
	}
	req.Options = &opts
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	batch, err := s.batches.Get(r.Context(), batchID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	report, err := s.analyzer.Run(r.Context(), batch, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if err := s.reports.Save(r.Context(), &report); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/reports/"+report.ReportID)
	writeJSON(w, http.StatusCreated, report)
}

// GetReport handles GET /v1/reports/{reportID}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	report, err := s.reports.Get(r.Context(), reportID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type reportListResponse struct {
	Items []*domain.AnalysisReport `json:"items"`
	Count int                      `json:"count"`
}

// ListReports handles GET /v1/reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultReportListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxReportListLimit {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"limit must be between 1 and "+strconv.Itoa(maxReportListLimit))
			return
		}
		limit = n
	}

	reports, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if reports == nil {
		reports = []*domain.AnalysisReport{}
	}

	writeJSON(w, http.StatusOK, reportListResponse{
		Items: reports,
		Count: len(reports),
	})
}

type searchRequest struct {
	Query   string `json:"query"`
	K       int    `json:"k,omitempty"`
	BatchID string `json:"batch_id,omitempty"`
}

type searchResponse struct {
	Items []domain.Neighbor `json:"items"`
	Count int               `json:"count"`
}

// SearchFeedback handles POST /v1/search.
func (s *Server) SearchFeedback(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeError(w, http.StatusNotImplemented, codeSearchDisabled,
			"semantic search is not configured")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	neighbors, err := s.index.Query(r.Context(), req.Query, req.K, req.BatchID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if neighbors == nil {
		neighbors = []domain.Neighbor{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items: neighbors,
		Count: len(neighbors),
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidOptions,
		domain.ErrBatchNotFound,
		domain.ErrReportNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// pipelineErrorHandler maps a PipelineError to a status by its kind and
// reports the failed stage in the body.
func pipelineErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var pe *domain.PipelineError
	if !errors.As(err, &pe) {
		return false
	}

	status := http.StatusBadGateway
	code := codePipelineFailed
	switch pe.Kind {
	case domain.KindConfiguration:
		status = http.StatusBadRequest
		code = codeValidationFailed
	case domain.KindCancelled:
		status = statusClientClosedRequest
		code = codeCancelled
	}

	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: pe.Message,
		Stage:   pe.Stage,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
