package chi

import (
	"context"
	"net/http"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
	healthuc "github.com/kailas-cloud/insight/internal/usecase/health"
	"github.com/kailas-cloud/insight/internal/usecase/normalize"
)

// fakeBatchStore is an in-memory BatchStore.
type fakeBatchStore struct {
	batches map[string]*domain.FeedbackBatch
	saveErr error
}

func newFakeBatchStore() *fakeBatchStore {
	return &fakeBatchStore{batches: make(map[string]*domain.FeedbackBatch)}
}

func (f *fakeBatchStore) Save(_ context.Context, batch *domain.FeedbackBatch) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.batches[batch.BatchID] = batch
	return nil
}

func (f *fakeBatchStore) Get(_ context.Context, batchID string) (*domain.FeedbackBatch, error) {
	b, ok := f.batches[batchID]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

// fakeReportStore is an in-memory ReportStore.
type fakeReportStore struct {
	reports map[string]*domain.AnalysisReport
	order   []string
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]*domain.AnalysisReport)}
}

func (f *fakeReportStore) Save(_ context.Context, rep *domain.AnalysisReport) error {
	f.reports[rep.ReportID] = rep
	f.order = append(f.order, rep.ReportID)
	return nil
}

func (f *fakeReportStore) Get(_ context.Context, reportID string) (*domain.AnalysisReport, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return rep, nil
}

func (f *fakeReportStore) List(_ context.Context, limit int) ([]*domain.AnalysisReport, error) {
	var out []*domain.AnalysisReport
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.reports[f.order[i]])
	}
	return out, nil
}

// stubAnalyzer returns a fixed report or error and remembers its inputs.
type stubAnalyzer struct {
	report   domain.AnalysisReport
	err      error
	gotOpts  domain.AnalysisOptions
	gotBatch *domain.FeedbackBatch
	calls    int
}

func (s *stubAnalyzer) Run(
	_ context.Context, batch *domain.FeedbackBatch, opts domain.AnalysisOptions,
) (domain.AnalysisReport, error) {
	s.calls++
	s.gotBatch = batch
	s.gotOpts = opts
	if s.err != nil {
		return domain.AnalysisReport{}, s.err
	}
	rep := s.report
	rep.BatchID = batch.BatchID
	return rep, nil
}

// fakeIndexer records indexed batches and serves canned neighbors.
type fakeIndexer struct {
	indexed   []*domain.FeedbackBatch
	indexErr  error
	neighbors []domain.Neighbor
	queryErr  error
	gotQuery  string
	gotK      int
	gotBatch  string
}

func (f *fakeIndexer) Index(_ context.Context, batch *domain.FeedbackBatch) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexed = append(f.indexed, batch)
	return nil
}

func (f *fakeIndexer) Query(
	_ context.Context, text string, k int, batchID string,
) ([]domain.Neighbor, error) {
	f.gotQuery = text
	f.gotK = k
	f.gotBatch = batchID
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.neighbors, nil
}

// stubHealth returns a fixed health report.
type stubHealth struct {
	report healthuc.Report
}

func (s *stubHealth) Check(_ context.Context) healthuc.Report {
	return s.report
}

// testEnv bundles a server with its fakes behind a mounted router.
type testEnv struct {
	server   *Server
	router   chirouter.Router
	batches  *fakeBatchStore
	reports  *fakeReportStore
	analyzer *stubAnalyzer
	index    *fakeIndexer
	health   *stubHealth
}

func newTestEnv() *testEnv {
	env := &testEnv{
		batches:  newFakeBatchStore(),
		reports:  newFakeReportStore(),
		analyzer: &stubAnalyzer{report: domain.AnalysisReport{ReportID: "rep-1"}},
		index:    &fakeIndexer{},
		health: &stubHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	env.server = NewServer(
		normalize.New(normalize.DefaultMinWordCount),
		env.analyzer,
		env.batches,
		env.reports,
		env.index,
		env.health,
		domain.DefaultAnalysisOptions(),
		zap.NewNop(),
	)
	env.router = chirouter.NewRouter()
	env.server.Routes(env.router)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
