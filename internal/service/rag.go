package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fabiokp/chatbot-wto/internal/model"
	"github.com/fabiokp/chatbot-wto/internal/session"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

// Embedder turns text into a vector. Satisfied by *LLMClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer answers a prompt. Satisfied by *LLMClient.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// promptTemplate is compiled in rather than fetched from a hub, so the
// request path has no network dependency beyond the model calls.
const promptTemplate = `You are a legal counsel specialized in international law, assisting government officials on the subject of the World Trade Organization's official documents and annexes. Keep your answers legally rigorous and precise in terminology. Be specific and close to the textual content of the documents. Try to name the articles and annexes, and paraphrase them whenever possible. If necessary, add a few bullet points to summarise at the end.
Question: %s
Context: %s
Answer:`

// RAGService answers questions grounded in the indexed corpus: embed the
// query, retrieve the top-K chunks, assemble them with the conversation
// history into the prompt, and record the turn.
type RAGService struct {
	store      store.VectorStore
	embedder   Embedder
	completer  Completer
	collection string
	topK       int
}

func NewRAGService(st store.VectorStore, embedder Embedder, completer Completer, collection string, topK int) *RAGService {
	return &RAGService{
		store:      st,
		embedder:   embedder,
		completer:  completer,
		collection: collection,
		topK:       topK,
	}
}

// Retrieve returns up to k chunks most similar to the query, in
// descending similarity order. Zero results is not an error.
func (s *RAGService) Retrieve(ctx context.Context, query string, k int) ([]model.Chunk, error) {
	if k <= 0 {
		k = s.topK
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := s.store.Search(ctx, s.collection, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search collection %s: %w", s.collection, err)
	}
	return chunks, nil
}

// Ask runs one full turn. On any failure the session is left untouched,
// so a retry reproduces the same request; the user and assistant turns
// are appended only after the model answers.
func (s *RAGService) Ask(ctx context.Context, sess *session.Session, query string, k int) (model.AskResponse, error) {
	chunks, err := s.Retrieve(ctx, query, k)
	if err != nil {
		return model.AskResponse{}, err
	}

	sources := CollectSources(chunks)
	combined := AssembleContext(sess.History(), chunks)
	prompt := fmt.Sprintf(promptTemplate, query, combined)

	answer, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return model.AskResponse{}, fmt.Errorf("generate answer: %w", err)
	}

	sess.AppendUser(query)
	sess.AppendAssistant(answer, sources)

	return model.AskResponse{
		Answer:  answer,
		Sources: sources,
		Context: chunks,
	}, nil
}

// AssembleContext merges the stored conversation history with the
// retrieved chunk texts into the single blob the prompt template expects.
// History lines use the raw stored content only; chunk texts keep the
// retrieval's similarity order.
func AssembleContext(history []model.Turn, retrieved []model.Chunk) string {
	historyLines := make([]string, 0, len(history))
	for _, t := range history {
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", capitalizeRole(t.Role), t.Content))
	}

	docTexts := make([]string, 0, len(retrieved))
	for _, ch := range retrieved {
		docTexts = append(docTexts, ch.Text)
	}

	return fmt.Sprintf("Conversation History:\n%s\n\nRetrieved Documents:\n%s",
		strings.Join(historyLines, "\n"), strings.Join(docTexts, "\n\n"))
}

// CollectSources extracts the links of a retrieval result: empties are
// dropped, duplicates collapse, and the rest are sorted lexicographically
// for stable display. Recomputed per turn, never cumulative.
func CollectSources(retrieved []model.Chunk) []string {
	seen := make(map[string]struct{}, len(retrieved))
	var sources []string
	for _, ch := range retrieved {
		link := strings.TrimSpace(ch.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		sources = append(sources, link)
	}
	sort.Strings(sources)
	return sources
}

func capitalizeRole(role string) string {
	switch role {
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	}
	if role == "" {
		return role
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
