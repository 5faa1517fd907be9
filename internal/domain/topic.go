package domain

// Topic is a cluster of semantically related feedback items with a
// representative keyword signature. TopicID values are stable within one
// discovery run only and are never persisted identifiers.
type Topic struct {
	TopicID            int      `json:"topic_id"`
	Keywords           []string `json:"keywords"`
	Size               int      `json:"size"`
	RepresentativeDocs []string `json:"representative_docs,omitempty"`
}

// TopicStatus tags the outcome of a topic discovery run.
type TopicStatus string

const (
	// TopicStatusOK means discovery ran and produced topics.
	TopicStatusOK TopicStatus = "ok"
	// TopicStatusInsufficientData means discovery did not run or produced
	// no meaningful output; a first-class outcome, not an error.
	TopicStatusInsufficientData TopicStatus = "insufficient_data"
)

// TopicResult is the tagged outcome of topic discovery. Status
// distinguishes "topics found" from "not enough data" so callers never
// confuse an empty topic list with a skipped stage; Message carries the
// human-readable reason on the insufficient path.
type TopicResult struct {
	Topics    []Topic     `json:"topics"`
	NumTopics int         `json:"num_topics"`
	Outliers  int         `json:"outliers,omitempty"`
	Status    TopicStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
}

// TopicsOK builds a successful discovery result.
func TopicsOK(topics []Topic, outliers int) TopicResult {
	return TopicResult{
		Topics:    topics,
		NumTopics: len(topics),
		Outliers:  outliers,
		Status:    TopicStatusOK,
	}
}

// TopicsInsufficient builds the degraded-but-valid result used when the
// batch is below the configured minimums, discovery is disabled, or the
// underlying clustering capability failed.
func TopicsInsufficient(message string) TopicResult {
	return TopicResult{
		Topics:  []Topic{},
		Status:  TopicStatusInsufficientData,
		Message: message,
	}
}
