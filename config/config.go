package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document pipeline.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Query      QueryConfig      `yaml:"query"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// PipelineConfig holds chunking and pacing parameters.
type PipelineConfig struct {
	Name            string  `yaml:"name"`
	ChunkTokens     int     `yaml:"chunk_tokens"`
	EmbedRatePerSec float64 `yaml:"embed_rate_per_sec"` // sustained embedding call rate
	EmbedBurst      int     `yaml:"embed_burst"`
}

// IngestConfig holds document discovery patterns.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ExtractionConfig selects the text-extraction backend.
type ExtractionConfig struct {
	Mode           string `yaml:"mode"` // "plaintext" or "http"
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EmbeddingConfig holds embedding-provider configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "http" or "mock"
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable for API key
	Dimension      int    `yaml:"dimension"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// QueryConfig holds search configuration.
type QueryConfig struct {
	TopK            int `yaml:"top_k"`
	CacheSize       int `yaml:"cache_size"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// NotifyConfig holds notification sink configuration.
type NotifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	SuccessURL     string `yaml:"success_url"`
	FailureURL     string `yaml:"failure_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Name:            "document-ingestion",
			ChunkTokens:     500,
			EmbedRatePerSec: 5.0,
			EmbedBurst:      1,
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.docpipe/**", "**/node_modules/**", "**/.git/**"},
		},
		Extraction: ExtractionConfig{
			Mode:           "plaintext",
			TimeoutSeconds: 120,
		},
		Embedding: EmbeddingConfig{
			Provider:       "http",
			Model:          "titan-embed-text-v2",
			APIKeyEnv:      "DOCPIPE_EMBED_API_KEY",
			Dimension:      1024,
			TimeoutSeconds: 60,
		},
		Query: QueryConfig{
			TopK:            5,
			CacheSize:       100,
			CacheTTLSeconds: 300,
		},
		Notify: NotifyConfig{
			Enabled:        false,
			TimeoutSeconds: 10,
		},
	}
}

// Load loads configuration from a YAML file, returning defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docpipe.yaml,
// then .docpipe/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docpipe.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docpipe", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir creates the .docpipe directory under root.
func EnsureDataDir(root string) error {
	return os.MkdirAll(filepath.Join(root, ".docpipe"), 0755)
}

// DBPath returns the BoltDB file path for the given root directory.
func DBPath(root string) string {
	return filepath.Join(root, ".docpipe", "docpipe.db")
}
