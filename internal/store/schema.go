package store

import (
	"database/sql"
	"fmt"
)

// ensureSchema creates the pgvector extension, the chunks table and the
// cosine index, plus the collections table that records rebuild state.
func ensureSchema(db *sql.DB, embeddingSize int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id SERIAL PRIMARY KEY,
			collection TEXT NOT NULL,
			doc_name TEXT NOT NULL,
			title TEXT NOT NULL,
			link TEXT,
			start_index INT NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d)
		)`, embeddingSize),
		`CREATE INDEX IF NOT EXISTS chunks_collection_idx ON chunks (collection)`,
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			chunks INT NOT NULL,
			rebuilt_at TIMESTAMPTZ
		)`,
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_class c
				JOIN pg_namespace n ON n.oid=c.relnamespace
				WHERE c.relname='chunks_embedding_ivfflat_idx'
			) THEN
				EXECUTE 'CREATE INDEX chunks_embedding_ivfflat_idx ON chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists=100)';
			END IF;
		END $$;`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	// ANALYZE keeps the ivfflat planner estimates usable
	_, _ = db.Exec(`ANALYZE chunks`)
	return nil
}
