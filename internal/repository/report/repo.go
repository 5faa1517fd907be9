package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/insight/internal/db"
	"github.com/kailas-cloud/insight/internal/domain"
)

const reportPrefix = domain.KeyPrefix + "report:"

// store is the consumer interface for analysis reports (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists analysis reports as RedisJSON documents.
type Repo struct {
	store store
}

// New creates a report repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save stores a report.
func (r *Repo) Save(ctx context.Context, rep *domain.AnalysisReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", rep.ReportID, err)
	}
	key := reportKey(rep.ReportID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a report by ID.
func (r *Repo) Get(ctx context.Context, reportID string) (*domain.AnalysisReport, error) {
	key := reportKey(reportID)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseReportResult(raw)
}

// List returns up to limit reports, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]*domain.AnalysisReport, error) {
	if limit <= 0 {
		limit = 20
	}

	keys, err := r.store.Scan(ctx, reportPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}

	reports := make([]*domain.AnalysisReport, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between SCAN and JSON.GET
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		rep, err := parseReportResult(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		reports = append(reports, rep)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].GeneratedAt.Equal(reports[j].GeneratedAt) {
			return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
		}
		return reports[i].ReportID > reports[j].ReportID
	})

	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func reportKey(reportID string) string {
	return reportPrefix + strings.TrimPrefix(reportID, reportPrefix)
}

// parseReportResult handles both the bare-object and the `$`-wrapped array
// forms JSON.GET can return.
func parseReportResult(raw []byte) (*domain.AnalysisReport, error) {
	var rep domain.AnalysisReport
	if err := json.Unmarshal(raw, &rep); err == nil && rep.ReportID != "" {
		return &rep, nil
	}

	var reps []domain.AnalysisReport
	if err := json.Unmarshal(raw, &reps); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	if len(reps) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return &reps[0], nil
}
