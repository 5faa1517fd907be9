package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/insight/internal/domain"
)

// Config holds the insight API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Auth      AuthConfig      `yaml:"auth"`
	Index     IndexConfig     `yaml:"index"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings for the semantic index.
type EmbeddingConfig struct {
	Provider    string       `yaml:"provider"` // label for logs/metrics
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	Dimensions  int          `yaml:"dimensions"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"` // 0 = cache entries never expire
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps embedding token spend. Zero limits disable tracking.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"`
	Action            string `yaml:"action"` // warn (default) or reject
}

// PipelineConfig holds analysis pipeline defaults. Per-request options can
// override everything except MinWordCount, which is a validation property
// of the normalizer.
type PipelineConfig struct {
	MinWordCount        int     `yaml:"min_word_count"`
	MinBatchSize        int     `yaml:"min_batch_size"`
	MinTopicSize        int     `yaml:"min_topic_size"`
	MaxTopics           int     `yaml:"max_topics"`
	MaxSummarySentences int     `yaml:"max_summary_sentences"`
	SentimentThreshold  float64 `yaml:"sentiment_threshold"`
	RepresentativeDocs  int     `yaml:"representative_docs"`
}

// IndexConfig holds HNSW index settings for the feedback vector index.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Pipeline.MinWordCount <= 0 {
		c.Pipeline.MinWordCount = 3
	}
	if c.Pipeline.MinBatchSize <= 0 {
		c.Pipeline.MinBatchSize = domain.DefaultMinBatchSize
	}
	if c.Pipeline.MinTopicSize <= 0 {
		c.Pipeline.MinTopicSize = domain.DefaultMinTopicSize
	}
	if c.Pipeline.MaxTopics <= 0 {
		c.Pipeline.MaxTopics = domain.DefaultMaxTopics
	}
	if c.Pipeline.MaxSummarySentences <= 0 {
		c.Pipeline.MaxSummarySentences = domain.DefaultMaxSummarySentences
	}
	if c.Pipeline.SentimentThreshold <= 0 {
		c.Pipeline.SentimentThreshold = domain.DefaultSentimentThreshold
	}
	if c.Pipeline.RepresentativeDocs <= 0 {
		c.Pipeline.RepresentativeDocs = domain.DefaultRepresentativeDocs
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = domain.KeyPrefix
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Pipeline.SentimentThreshold >= 1 {
		return fmt.Errorf("pipeline.sentiment_threshold must be below 1, got %g", c.Pipeline.SentimentThreshold)
	}
	if c.Embedding.Model != "" && c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions is required when embedding.model is set")
	}
	if a := c.Embedding.Budget.Action; a != "" && a != "warn" && a != "reject" {
		return fmt.Errorf("embedding.budget.action must be warn or reject, got %q", a)
	}
	return nil
}

// AnalysisDefaults translates pipeline config into per-run analysis options.
func (c *Config) AnalysisDefaults() domain.AnalysisOptions {
	opts := domain.DefaultAnalysisOptions()
	opts.MinBatchSize = c.Pipeline.MinBatchSize
	opts.MinTopicSize = c.Pipeline.MinTopicSize
	opts.MaxTopics = c.Pipeline.MaxTopics
	opts.MaxSummarySentences = c.Pipeline.MaxSummarySentences
	opts.SentimentThreshold = c.Pipeline.SentimentThreshold
	return opts
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
