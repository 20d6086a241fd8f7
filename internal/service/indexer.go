package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"github.com/fabiokp/chatbot-wto/internal/chunker"
	"github.com/fabiokp/chatbot-wto/internal/model"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

// Indexer rebuilds the vector collection from a set of document records.
// It is driven by the admin CLI only; rebuild is an offline operation and
// must not run against a collection serving live queries.
type Indexer struct {
	store      store.VectorStore
	embedder   Embedder
	chunker    *chunker.Chunker
	collection string
	limiter    *rate.Limiter
}

// NewIndexer wires an Indexer. embedRate caps embedding calls per second
// against the externally rate-limited embedding service; zero or negative
// disables the cap.
func NewIndexer(st store.VectorStore, embedder Embedder, ck *chunker.Chunker, collection string, embedRate float64) *Indexer {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if embedRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(embedRate), 1)
	}
	return &Indexer{
		store:      st,
		embedder:   embedder,
		chunker:    ck,
		collection: collection,
		limiter:    limiter,
	}
}

// Rebuild chunks the records, embeds every chunk, and replaces the
// collection contents in one store operation. All embeddings are computed
// before the store is touched, so an embedding failure aborts the rebuild
// with the prior generation still intact. Rebuilding twice from the same
// records yields the same collection contents.
func (ix *Indexer) Rebuild(ctx context.Context, records []model.DocumentRecord) (store.Status, error) {
	chunks := ix.chunker.SplitAll(records)
	if len(chunks) == 0 {
		return store.Status{}, fmt.Errorf("no chunks produced from %d records", len(records))
	}
	log.Printf("indexer: %d records split into %d chunks", len(records), len(chunks))

	vectors := make([][]float32, len(chunks))
	for i, ch := range chunks {
		if err := ix.limiter.Wait(ctx); err != nil {
			return store.Status{}, fmt.Errorf("rate limit wait: %w", err)
		}
		vec, err := ix.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return store.Status{}, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		vectors[i] = vec
	}

	if err := ix.store.Rebuild(ctx, ix.collection, chunks, vectors); err != nil {
		return store.Status{}, fmt.Errorf("rebuild collection %s: %w", ix.collection, err)
	}
	log.Printf("indexer: collection %s rebuilt with %d chunks", ix.collection, len(chunks))

	return ix.store.Status(ctx, ix.collection)
}
