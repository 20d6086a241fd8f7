package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// QdrantStore maps every logical collection onto a qdrant collection of
// the same name. Rebuild drops and recreates the collection, so a failure
// mid-rebuild leaves it observably empty rather than half-complete.
type QdrantStore struct {
	client        *qdrant.Client
	embeddingSize int
}

func NewQdrantStore(host string, port, embeddingSize int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}
	return &QdrantStore{client: client, embeddingSize: embeddingSize}, nil
}

func (s *QdrantStore) Rebuild(ctx context.Context, collection string, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, collection); err != nil {
			return fmt.Errorf("delete previous generation: %w", err)
		}
	}

	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.embeddingSize),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	pts := make([]*qdrant.PointStruct, len(chunks))
	for i, ch := range chunks {
		pts[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.New().String()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":        ch.Text,
				"start_index": ch.StartIndex,
				"document":    ch.Document,
				"title":       ch.Title,
				"link":        ch.Link,
				"order":       i,
			}),
		}
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         pts,
	}); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.Chunk, error) {
	limit := uint64(k)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	out := make([]model.Chunk, 0, len(resp))
	for _, r := range resp {
		ch := model.Chunk{}
		if v, ok := r.Payload["text"]; ok {
			ch.Text = v.GetStringValue()
		}
		if v, ok := r.Payload["start_index"]; ok {
			ch.StartIndex = int(v.GetIntegerValue())
		}
		if v, ok := r.Payload["document"]; ok {
			ch.Document = v.GetStringValue()
		}
		if v, ok := r.Payload["title"]; ok {
			ch.Title = v.GetStringValue()
		}
		if v, ok := r.Payload["link"]; ok {
			ch.Link = v.GetStringValue()
		}
		out = append(out, ch)
	}
	return out, nil
}

func (s *QdrantStore) Status(ctx context.Context, collection string) (Status, error) {
	st := Status{Collection: collection}
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return st, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return st, nil
	}
	st.Exists = true

	count, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: collection})
	if err != nil {
		return st, fmt.Errorf("count points: %w", err)
	}
	// qdrant does not record rebuild time; RebuiltAt stays zero
	st.Chunks = int(count)
	return st, nil
}

func (s *QdrantStore) Close() error { return s.client.Close() }
