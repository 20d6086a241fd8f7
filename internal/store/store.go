// Package store provides the vector collection backends used for
// indexing and similarity retrieval.
package store

import (
	"context"
	"time"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// Status describes the observable state of a named collection, so an
// operator can tell a completed rebuild from a missing or empty one.
type Status struct {
	Collection string    `json:"collection"`
	Exists     bool      `json:"exists"`
	Chunks     int       `json:"chunks"`
	RebuiltAt  time.Time `json:"rebuilt_at,omitempty"`
}

// VectorStore is a named-collection vector index.
//
// Rebuild fully replaces the collection's contents: chunks[i] is stored
// with vectors[i], and any prior generation of the collection is gone
// afterwards. A failed Rebuild must not leave a partially inserted set
// that looks complete.
//
// Search returns up to k chunks ordered by descending similarity to the
// query vector; ties keep insertion order so retrieval is reproducible.
type VectorStore interface {
	Rebuild(ctx context.Context, collection string, chunks []model.Chunk, vectors [][]float32) error
	Search(ctx context.Context, collection string, vector []float32, k int) ([]model.Chunk, error)
	Status(ctx context.Context, collection string) (Status, error)
	Close() error
}
