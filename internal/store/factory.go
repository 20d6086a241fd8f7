package store

import (
	"fmt"

	"github.com/fabiokp/chatbot-wto/internal/config"
)

// Open builds the VectorStore selected by the configuration.
func Open(cfg config.StoreConfig) (VectorStore, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return NewPgStore(cfg.PgConn, cfg.EmbeddingSize)
	case config.BackendQdrant:
		return NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, cfg.EmbeddingSize)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}
