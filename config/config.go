package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the cirag tool.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig describes where packs live and which entities the corpus
// covers.
type CorpusConfig struct {
	Packs    []string          `yaml:"packs"`    // glob patterns for pack discovery
	Entities []string          `yaml:"entities"` // competitor names tracked for diversity
	BaseURL  string            `yaml:"base_url"` // citation URL prefix
	DocIDs   map[string]string `yaml:"doc_ids"`  // source-label substring -> document ID
}

// RetrieveConfig holds selection budget configuration.
type RetrieveConfig struct {
	MaxSources     int     `yaml:"max_sources"`
	MatchThreshold float64 `yaml:"match_threshold"`
	MaxCharacters  int     `yaml:"max_characters"`
	MinGuaranteed  int     `yaml:"min_guaranteed"`
	CacheSize      int     `yaml:"cache_size"`
}

// ScoringConfig holds scorer configuration.
type ScoringConfig struct {
	VocabularyFile string `yaml:"vocabulary_file"` // optional YAML vocabulary override
}

// EmbeddingConfig holds the optional embedding strategy configuration.
type EmbeddingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Packs:    []string{"pack.json", "**/pack*.json"},
			Entities: []string{"Lennar", "Meritage"},
			BaseURL:  "https://dreamfinders.poc.answerrocket.com/apps/system/knowledge-base",
			DocIDs: map[string]string{
				"Lennar":   "abb40c5f-f259-48bf-85c3-d2ed1ea956b8",
				"Meritage": "7f0292db-d935-4c90-b65b-897bb98167f9",
			},
		},
		Retrieve: RetrieveConfig{
			MaxSources:     5,
			MatchThreshold: 0.15,
			MaxCharacters:  3000,
			MinGuaranteed:  2,
			CacheSize:      100,
		},
		Embedding: EmbeddingConfig{
			Enabled:   false,
			Model:     "text-embedding-3-small",
			BaseURL:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cirag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "cirag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".cirag", "config.yaml")
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

// CorpusDBPath returns the path to the corpus database.
func CorpusDBPath(dir string) string {
	return filepath.Join(dir, ".cirag", "corpus.db")
}

// EnsureDir ensures the .cirag directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".cirag"), 0755)
}
