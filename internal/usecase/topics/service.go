// Package topics discovers latent themes in a feedback batch.
package topics

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Service is the topic discovery stage. Preconditions are checked before
// the clustering capability runs, and a capability failure degrades to an
// insufficient-data result instead of propagating.
type Service struct {
	clusterer Clusterer
	logger    *zap.Logger
}

// New creates a topic discovery service.
func New(clusterer Clusterer, logger *zap.Logger) *Service {
	return &Service{clusterer: clusterer, logger: logger}
}

// Discover clusters the texts into topics ranked by descending size.
// Batches below min_batch_size or min_topic_size return an
// insufficient-data result without invoking the clusterer.
func (s *Service) Discover(
	_ context.Context, texts []string, opts domain.AnalysisOptions,
) domain.TopicResult {
	if len(texts) < opts.MinBatchSize {
		return domain.TopicsInsufficient(fmt.Sprintf(
			"batch has %d items, topic discovery needs at least %d", len(texts), opts.MinBatchSize))
	}
	if len(texts) < opts.MinTopicSize {
		return domain.TopicsInsufficient(fmt.Sprintf(
			"batch has %d items, smaller than the minimum topic size %d", len(texts), opts.MinTopicSize))
	}

	topics, outliers, err := s.clusterer.Cluster(texts, opts.MaxTopics, opts.MinTopicSize)
	if err != nil {
		s.logger.Warn("Topic clustering failed, degrading to insufficient data",
			zap.Int("batch_size", len(texts)),
			zap.Error(err),
		)
		return domain.TopicsInsufficient("topic discovery failed: " + err.Error())
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Size > topics[j].Size
	})
	if len(topics) == 0 {
		return domain.TopicsInsufficient("no topic reached the minimum size")
	}
	return domain.TopicsOK(topics, outliers)
}
