package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// PgStore keeps collections in a single pgvector table keyed by
// collection name. Rebuild runs delete+insert in one transaction, so a
// failed rebuild rolls back and the prior generation stays intact.
type PgStore struct {
	db            *sql.DB
	embeddingSize int
}

func NewPgStore(conn string, embeddingSize int) (*PgStore, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := ensureSchema(db, embeddingSize); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PgStore{db: db, embeddingSize: embeddingSize}, nil
}

func (s *PgStore) Rebuild(ctx context.Context, collection string, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("drop previous generation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (collection, doc_name, title, link, start_index, text, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7::vector)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, ch := range chunks {
		vec := floatsToPgVectorLiteral(vectors[i])
		if _, err := stmt.ExecContext(ctx, collection, ch.Document, ch.Title, ch.Link, ch.StartIndex, ch.Text, vec); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO collections (name, chunks, rebuilt_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET chunks = EXCLUDED.chunks, rebuilt_at = EXCLUDED.rebuilt_at
	`, collection, len(chunks), time.Now().UTC()); err != nil {
		return fmt.Errorf("record rebuild: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

func (s *PgStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.Chunk, error) {
	vec := floatsToPgVectorLiteral(vector)
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_name, title, link, start_index, text
		FROM chunks
		WHERE collection = $1
		ORDER BY embedding <=> $2::vector, id
		LIMIT $3
	`, collection, vec, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var res []model.Chunk
	for rows.Next() {
		var ch model.Chunk
		if err := rows.Scan(&ch.Document, &ch.Title, &ch.Link, &ch.StartIndex, &ch.Text); err != nil {
			return nil, err
		}
		res = append(res, ch)
	}
	return res, rows.Err()
}

func (s *PgStore) Status(ctx context.Context, collection string) (Status, error) {
	st := Status{Collection: collection}
	var rebuiltAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT chunks, rebuilt_at FROM collections WHERE name = $1
	`, collection).Scan(&st.Chunks, &rebuiltAt)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("collection status: %w", err)
	}
	st.Exists = true
	if rebuiltAt.Valid {
		st.RebuiltAt = rebuiltAt.Time
	}
	return st, nil
}

func (s *PgStore) Close() error { return s.db.Close() }

func floatsToPgVectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range v {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("%.6f", float64(f)))
	}
	sb.WriteString("]")
	return sb.String()
}
