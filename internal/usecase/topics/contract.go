package topics

import "github.com/kailas-cloud/insight/internal/domain"

// Clusterer is the underlying topic-clustering capability. It returns
// ranked topics plus the number of documents left unassigned.
type Clusterer interface {
	Cluster(texts []string, maxTopics, minTopicSize int) ([]domain.Topic, int, error)
}
