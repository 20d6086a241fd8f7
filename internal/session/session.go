// Package session holds per-conversation state. A session owns an
// append-only log of turns; it is created at session start and discarded
// at session end, never persisted or shared across sessions.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fabiokp/chatbot-wto/internal/model"
)

// Session is the conversation log of one chat. All mutation is
// append-only and guarded by a single-writer mutex.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	turns []model.Turn
}

func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// AppendUser records a user query.
func (s *Session) AppendUser(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, model.Turn{Role: model.RoleUser, Content: content})
}

// AppendAssistant records a model answer. Content must be the raw model
// output; sources are kept alongside it and only merged in at display
// time, so citation text never leaks into future prompts.
func (s *Session) AppendAssistant(content string, sources []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := model.Turn{Role: model.RoleAssistant, Content: content}
	if len(sources) > 0 {
		turn.Sources = append([]string(nil), sources...)
	}
	s.turns = append(s.turns, turn)
}

// History returns a copy of the stored turns in chronological order.
func (s *Session) History() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Turn(nil), s.turns...)
}

// Render returns display views of every turn: assistant turns with
// sources get a trailing Sources list appended to their content. The
// stored turns are not modified.
func (s *Session) Render() []model.Turn {
	turns := s.History()
	out := make([]model.Turn, len(turns))
	for i, t := range turns {
		out[i] = t
		if t.Role == model.RoleAssistant && len(t.Sources) > 0 {
			out[i].Content = t.Content + FormatSources(t.Sources)
		}
	}
	return out
}

// FormatSources renders the per-turn source list shown to the end user.
func FormatSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nSources:\n")
	for i, link := range sources {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("- %s", link))
	}
	return sb.String()
}
