// Package chunker splits document content into fixed-size overlapping
// windows while preserving the rune offset of every window.
package chunker

import (
	"fmt"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// Defaults match the corpus indexing configuration.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker produces fixed-size windows with a fixed overlap. Windowing is
// pure character counting, no sentence or paragraph awareness, so chunk
// cost at the embedding step stays predictable.
type Chunker struct {
	size    int
	overlap int
}

// New returns a Chunker or an error when size <= overlap or overlap < 0.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must satisfy 0 <= overlap < size, got %d", overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split windows rec.Content and carries the record's attribution fields
// onto every chunk. Empty content yields no chunks. StartIndex values are
// strictly increasing; each window after the first starts size-overlap
// runes after the previous one, and the last window holds the remainder.
func (c *Chunker) Split(rec model.DocumentRecord) []model.Chunk {
	runes := []rune(rec.Content)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]model.Chunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, model.Chunk{
			Text:       string(runes[start:end]),
			StartIndex: start,
			Document:   rec.Document,
			Title:      rec.Title,
			Link:       rec.Link,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// SplitAll chunks every record in order, skipping records with empty
// content. Callers are expected to have filtered those already; the skip
// here keeps the invariant even when they have not.
func (c *Chunker) SplitAll(records []model.DocumentRecord) []model.Chunk {
	var chunks []model.Chunk
	for _, rec := range records {
		chunks = append(chunks, c.Split(rec)...)
	}
	return chunks
}
