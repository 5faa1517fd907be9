package insight

import "go.uber.org/zap"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs        []string
	password     string
	embedder     Embedder
	dimensions   int
	minWordCount int
	hnswM        int
	hnswEF       int
	logger       *zap.Logger
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithEmbedder enables the semantic index using the given embedder.
// dimensions is the embedding dimensionality.
func WithEmbedder(embedder Embedder, dimensions int) Option {
	return func(c *clientConfig) {
		c.embedder = embedder
		c.dimensions = dimensions
	}
}

// WithMinWordCount overrides the minimum word count for valid feedback.
func WithMinWordCount(n int) Option {
	return func(c *clientConfig) {
		c.minWordCount = n
	}
}

// WithHNSW tunes the vector index construction parameters.
func WithHNSW(m, efConstruct int) Option {
	return func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	}
}

// WithLogger sets a logger; the default is no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
