package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabiokp/chatbot-wto/internal/model"
	"github.com/fabiokp/chatbot-wto/internal/session"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

// stubEmbedder returns a fixed vector per known text and a default for
// everything else.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

type stubCompleter struct {
	answer  string
	err     error
	prompts []string
}

func (c *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func seededStore(t *testing.T, chunks []model.Chunk, vectors [][]float32) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.Rebuild(context.Background(), "wto_texts", chunks, vectors))
	return s
}

func TestAskReturnsAnswerWithDedupedSortedSources(t *testing.T) {
	trips := "https://www.wto.org/english/docs_e/legal_e/trips_e.htm"
	legal := "https://www.wto.org/english/docs_e/legal_e/legal_e.htm"
	chunks := []model.Chunk{
		{Text: "Annex 1C covers trade-related aspects of intellectual property rights.", Link: trips},
		{Text: "The TRIPS Agreement was amended on 23 January 2017.", Link: trips},
		{Text: "The WTO legal texts comprise some 60 agreements and annexes.", Link: legal},
	}
	vectors := [][]float32{{1, 0, 0}, {0.9, 0.1, 0}, {0.8, 0.2, 0}}
	st := seededStore(t, chunks, vectors)

	svc := NewRAGService(st, &stubEmbedder{}, &stubCompleter{answer: "Annex 1C is the TRIPS Agreement."}, "wto_texts", 4)
	sess := session.New()

	resp, err := svc.Ask(context.Background(), sess, "What is Annex 1C?", 4)
	require.NoError(t, err)
	assert.Equal(t, "Annex 1C is the TRIPS Agreement.", resp.Answer)
	assert.LessOrEqual(t, len(resp.Context), 4)
	// two chunks share the TRIPS link; the turn's source list has it once
	assert.Equal(t, []string{legal, trips}, resp.Sources)

	turns := sess.History()
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "What is Annex 1C?", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.Equal(t, resp.Sources, turns[1].Sources)
}

func TestAskCompletionFailureLeavesSessionUntouched(t *testing.T) {
	st := seededStore(t, []model.Chunk{{Text: "some chunk"}}, [][]float32{{1, 0, 0}})
	svc := NewRAGService(st, &stubEmbedder{}, &stubCompleter{err: fmt.Errorf("rate limited")}, "wto_texts", 4)
	sess := session.New()

	_, err := svc.Ask(context.Background(), sess, "What is Annex 1C?", 4)
	require.Error(t, err)
	assert.Empty(t, sess.History())
}

func TestAskEmbeddingFailureLeavesSessionUntouched(t *testing.T) {
	st := seededStore(t, []model.Chunk{{Text: "some chunk"}}, [][]float32{{1, 0, 0}})
	svc := NewRAGService(st, &stubEmbedder{err: fmt.Errorf("timeout")}, &stubCompleter{answer: "x"}, "wto_texts", 4)
	sess := session.New()

	_, err := svc.Ask(context.Background(), sess, "What is Annex 1C?", 4)
	require.Error(t, err)
	assert.Empty(t, sess.History())
}

func TestAskZeroRetrievalStillAnswersWithoutSources(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Rebuild(context.Background(), "wto_texts", nil, nil))

	completer := &stubCompleter{answer: "answered from general context"}
	svc := NewRAGService(st, &stubEmbedder{}, completer, "wto_texts", 4)
	sess := session.New()

	resp, err := svc.Ask(context.Background(), sess, "What is the WTO?", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Sources)

	turns := sess.History()
	require.Len(t, turns, 2)
	assert.Nil(t, turns[1].Sources)

	// the prompt still carries an (empty) retrieved-documents section
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Retrieved Documents:")
}

func TestAskPromptUsesRawStoredHistory(t *testing.T) {
	st := seededStore(t,
		[]model.Chunk{{Text: "chunk text", Link: "https://www.wto.org/english/docs_e/legal_e/trips_e.htm"}},
		[][]float32{{1, 0, 0}})
	completer := &stubCompleter{answer: "first answer"}
	svc := NewRAGService(st, &stubEmbedder{}, completer, "wto_texts", 4)
	sess := session.New()

	_, err := svc.Ask(context.Background(), sess, "first question", 1)
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), sess, "second question", 1)
	require.NoError(t, err)

	require.Len(t, completer.prompts, 2)
	assert.Contains(t, completer.prompts[1], "User: first question")
	assert.Contains(t, completer.prompts[1], "Assistant: first answer")
	// the display-only sources block never reaches the prompt
	assert.NotContains(t, completer.prompts[1], "Sources:")
}

func TestAssembleContextFormat(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleUser, Content: "What is Annex 1C?"},
		{Role: model.RoleAssistant, Content: "The TRIPS Agreement."},
	}
	retrieved := []model.Chunk{
		{Text: "first chunk"},
		{Text: "second chunk"},
	}

	got := AssembleContext(history, retrieved)
	want := "Conversation History:\nUser: What is Annex 1C?\nAssistant: The TRIPS Agreement.\n\nRetrieved Documents:\nfirst chunk\n\nsecond chunk"
	assert.Equal(t, want, got)
}

func TestCollectSources(t *testing.T) {
	chunks := []model.Chunk{
		{Link: "https://b.example.org"},
		{Link: "https://a.example.org"},
		{Link: "https://b.example.org"},
		{Link: "  "},
		{Link: ""},
	}

	got := CollectSources(chunks)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, got)

	// idempotent and order-stable
	assert.Equal(t, got, CollectSources(chunks))
	assert.Nil(t, CollectSources(nil))
}
