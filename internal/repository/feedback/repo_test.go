package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/insight/internal/db"
	"github.com/kailas-cloud/insight/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn     func(ctx context.Context, key string) error
	existsFn  func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func testBatch() *domain.FeedbackBatch {
	return &domain.FeedbackBatch{
		BatchID: "b01",
		Items: []domain.FeedbackItem{
			{ID: "i1", RawText: "Shipping took forever.", NormalizedText: "shipping took forever."},
			{ID: "i2", RawText: "Great support team!", NormalizedText: "great support team!"},
		},
		ValidCount:   2,
		InvalidCount: 1,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSave_WritesBatchDoc(t *testing.T) {
	ms := &mockStore{}
	var gotKey string
	var gotData []byte
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		gotKey = key
		if path != "$" {
			t.Errorf("path = %q, want $", path)
		}
		gotData = data
		return nil
	}

	repo := New(ms)
	if err := repo.Save(context.Background(), testBatch()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "insight:batch:b01" {
		t.Errorf("key = %q, want insight:batch:b01", gotKey)
	}

	var stored domain.FeedbackBatch
	if err := json.Unmarshal(gotData, &stored); err != nil {
		t.Fatalf("unmarshal stored batch: %v", err)
	}
	if stored.BatchID != "b01" || len(stored.Items) != 2 || stored.InvalidCount != 1 {
		t.Errorf("unexpected stored batch: %+v", stored)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	data, _ := json.Marshal(testBatch())
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != "insight:batch:b01" {
			t.Errorf("key = %q", key)
		}
		return data, nil
	}

	repo := New(ms)
	batch, err := repo.Get(context.Background(), "b01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.BatchID != "b01" {
		t.Errorf("batch_id = %q, want b01", batch.BatchID)
	}
	if len(batch.Items) != 2 || batch.Items[0].ID != "i1" {
		t.Errorf("unexpected items: %+v", batch.Items)
	}
}

func TestGet_WrappedArrayForm(t *testing.T) {
	ms := &mockStore{}
	single, _ := json.Marshal(testBatch())
	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return []byte("[" + string(single) + "]"), nil
	}

	repo := New(ms)
	batch, err := repo.Get(context.Background(), "b01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.BatchID != "b01" {
		t.Errorf("batch_id = %q, want b01", batch.BatchID)
	}
}

func TestGet_NotFound(t *testing.T) {
	ms := &mockStore{}
	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	repo := New(ms)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	repo := New(ms)
	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	deleted := false
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key == "insight:batch:b01"
		return nil
	}

	repo := New(ms)
	if err := repo.Delete(context.Background(), "b01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected DEL on batch key")
	}
}
