// Package normalize cleans and validates raw feedback text before any
// analysis stage sees it.
package normalize

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kailas-cloud/insight/internal/domain"
)

// DefaultMinWordCount is the minimum cleaned word count for a valid item.
const DefaultMinWordCount = 3

var (
	urlRegex   = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9.-]+\b`)
)

// Service is the text normalization capability. Pure: no I/O, no state
// beyond the item id generator.
type Service struct {
	minWordCount int

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a normalizer. minWordCount <= 0 falls back to the default.
func New(minWordCount int) *Service {
	if minWordCount <= 0 {
		minWordCount = DefaultMinWordCount
	}
	return &Service{
		minWordCount: minWordCount,
		entropy:      ulid.Monotonic(rand.Reader, 0),
	}
}

// Normalize strips URLs, email addresses and excess whitespace from raw
// text. It returns a *domain.ValidationError when the cleaned text is empty
// or has fewer words than the configured minimum.
func (s *Service) Normalize(raw string) (string, error) {
	cleaned := urlRegex.ReplaceAllString(raw, " ")
	cleaned = emailRegex.ReplaceAllString(cleaned, " ")
	words := strings.Fields(cleaned)

	if len(words) == 0 {
		return "", &domain.ValidationError{Reason: domain.ReasonEmpty}
	}
	if len(words) < s.minWordCount {
		return "", &domain.ValidationError{Reason: domain.ReasonTooShort}
	}
	return strings.Join(words, " "), nil
}

// Partition normalizes all raw texts and splits them into valid feedback
// items and rejected entries. Items keep their submission order and get
// fresh ULID ids. Duplicate normalized texts are counted on the batch but
// kept in place. metadata is positional and may be shorter than raws.
func (s *Service) Partition(
	batchID string, raws []string, metadata []map[string]string,
) (domain.FeedbackBatch, []domain.InvalidItem) {
	batch := domain.FeedbackBatch{
		BatchID:   batchID,
		CreatedAt: time.Now().UTC(),
	}
	var invalid []domain.InvalidItem
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		normalized, err := s.Normalize(raw)
		if err != nil {
			reason := domain.ReasonEmpty
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				reason = vErr.Reason
			}
			invalid = append(invalid, domain.InvalidItem{RawText: raw, Reason: reason})
			continue
		}

		dupKey := strings.ToLower(normalized)
		if _, dup := seen[dupKey]; dup {
			batch.DuplicateCount++
		} else {
			seen[dupKey] = struct{}{}
		}

		var md map[string]string
		if i < len(metadata) {
			md = metadata[i]
		}
		batch.Items = append(batch.Items, domain.FeedbackItem{
			ID:             s.newID(),
			RawText:        raw,
			NormalizedText: normalized,
			Metadata:       md,
		})
	}

	batch.ValidCount = len(batch.Items)
	batch.InvalidCount = len(invalid)
	return batch, invalid
}

func (s *Service) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
