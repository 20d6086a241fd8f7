package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// MemoryStore is a brute-force cosine-similarity store. It backs tests
// and local development where neither Postgres nor Qdrant is running.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	chunks    []model.Chunk
	vectors   [][]float32
	rebuiltAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Rebuild(_ context.Context, collection string, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = &memoryCollection{
		chunks:    append([]model.Chunk(nil), chunks...),
		vectors:   append([][]float32(nil), vectors...),
		rebuiltAt: time.Now(),
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, collection string, vector []float32, k int) ([]model.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(col.vectors))
	for i, v := range col.vectors {
		scores[i] = scored{idx: i, score: cosine(v, vector)}
	}
	// stable sort keeps insertion order on score ties
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]model.Chunk, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, col.chunks[scores[i].idx])
	}
	return out, nil
}

func (s *MemoryStore) Status(_ context.Context, collection string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return Status{Collection: collection}, nil
	}
	return Status{
		Collection: collection,
		Exists:     true,
		Chunks:     len(col.chunks),
		RebuiltAt:  col.rebuiltAt,
	}, nil
}

func (s *MemoryStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
