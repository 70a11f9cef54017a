package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "NEWSVAULT_CONFIG"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	databaseDSNEnv  = "DATABASE_DSN"
	chromaURLEnv    = "CHROMA_URL"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Index      IndexConfig      `yaml:"index"`
	Registry   RegistryConfig   `yaml:"registry"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OpenAIConfig defines how to contact the chat-completions API.
type OpenAIConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
}

// EmbeddingConfig defines the embeddings endpoint and model.
type EmbeddingConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// IndexConfig selects and configures the vector index.
type IndexConfig struct {
	Type       string `yaml:"type"` // "chroma" or "memory"
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

// RegistryConfig describes the optional processed-article Postgres registry.
// An empty DSN disables it.
type RegistryConfig struct {
	DSN string `yaml:"dsn"`
}

// ExtractorConfig tunes the article fetcher.
type ExtractorConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// SummarizerConfig tunes article chunking before generation.
type SummarizerConfig struct {
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
}

// Load reads .env, then YAML configuration (if present), and applies
// environment overrides on top.
func Load() Config {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Registry.DSN = v
	}
	if v := os.Getenv(chromaURLEnv); v != "" {
		c.Index.URL = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.Temperature != 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}

	if override.Embedding.Endpoint != "" {
		base.Embedding.Endpoint = override.Embedding.Endpoint
	}
	if override.Embedding.Model != "" {
		base.Embedding.Model = override.Embedding.Model
	}

	if override.Index.Type != "" {
		base.Index.Type = override.Index.Type
	}
	if override.Index.URL != "" {
		base.Index.URL = override.Index.URL
	}
	if override.Index.Collection != "" {
		base.Index.Collection = override.Index.Collection
	}

	if override.Registry.DSN != "" {
		base.Registry.DSN = override.Registry.DSN
	}

	if override.Extractor.TimeoutSeconds != 0 {
		base.Extractor.TimeoutSeconds = override.Extractor.TimeoutSeconds
	}

	if override.Summarizer.ChunkSize != 0 {
		base.Summarizer.ChunkSize = override.Summarizer.ChunkSize
	}
	if override.Summarizer.ChunkOverlap != 0 {
		base.Summarizer.ChunkOverlap = override.Summarizer.ChunkOverlap
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		OpenAI: OpenAIConfig{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-3.5-turbo",
			APIKey:      "",
			Temperature: 0.7,
		},
		Embedding: EmbeddingConfig{
			Endpoint: "https://api.openai.com/v1/embeddings",
			Model:    "text-embedding-ada-002",
		},
		Index: IndexConfig{
			Type:       "chroma",
			URL:        "http://localhost:8000",
			Collection: "articles",
		},
		Registry:   RegistryConfig{DSN: ""},
		Extractor:  ExtractorConfig{TimeoutSeconds: 10},
		Summarizer: SummarizerConfig{ChunkSize: 2000, ChunkOverlap: 200},
	}
}
