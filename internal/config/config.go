package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Store.Backend.
const (
	BackendPostgres = "postgres"
	BackendQdrant   = "qdrant"
	BackendMemory   = "memory"
)

type Config struct {
	ServerAddr string `yaml:"server_addr"`

	LLM   LLMConfig   `yaml:"llm"`
	Store StoreConfig `yaml:"store"`
	Index IndexConfig `yaml:"index"`
}

type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	EmbedModel     string `yaml:"embed_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"`
	Collection    string `yaml:"collection"`
	PgConn        string `yaml:"pg_conn"`
	QdrantHost    string `yaml:"qdrant_host"`
	QdrantPort    int    `yaml:"qdrant_port"`
	EmbeddingSize int    `yaml:"embedding_size"`
}

type IndexConfig struct {
	CorpusPath   string  `yaml:"corpus_path"`
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	TopK         int     `yaml:"top_k"`
	EmbedRate    float64 `yaml:"embed_rate"`
}

// Load reads an optional YAML config file (environment variables inside it
// are expanded) and falls back to env vars and defaults for anything unset.
// An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerAddr: getenv("SERVER_ADDR", ":8080"),
		LLM: LLMConfig{
			BaseURL:        getenv("OPENAI_BASE_URL", ""),
			APIKey:         getenv("OPENAI_API_KEY", ""),
			EmbedModel:     getenv("EMBED_MODEL", "text-embedding-3-large"),
			ChatModel:      getenv("CHAT_MODEL", "gpt-4.1-mini-2025-04-14"),
			TimeoutSeconds: getint("LLM_TIMEOUT_SECONDS", 60),
		},
		Store: StoreConfig{
			Backend:       getenv("VECTOR_BACKEND", BackendPostgres),
			Collection:    getenv("COLLECTION", "wto_texts"),
			PgConn:        getenv("PG_CONN", "host=localhost port=5432 user=postgres password=postgres dbname=wto sslmode=disable"),
			QdrantHost:    getenv("QDRANT_HOST", "localhost"),
			QdrantPort:    getint("QDRANT_PORT", 6334),
			EmbeddingSize: getint("EMBEDDING_SIZE", 3072),
		},
		Index: IndexConfig{
			CorpusPath:   getenv("CORPUS_PATH", "wto_links_with_content.json"),
			ChunkSize:    getint("CHUNK_SIZE", 1000),
			ChunkOverlap: getint("CHUNK_OVERLAP", 200),
			TopK:         getint("TOP_K", 4),
			EmbedRate:    getfloat("EMBED_RATE", 5),
		},
	}
}

func (c *Config) Validate() error {
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("chunk_overlap must satisfy 0 <= overlap < chunk_size, got %d", c.Index.ChunkOverlap)
	}
	if c.Index.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Index.TopK)
	}
	switch c.Store.Backend {
	case BackendPostgres, BackendQdrant, BackendMemory:
	default:
		return fmt.Errorf("unknown vector backend %q", c.Store.Backend)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
