package model

// DocumentRecord is one entry of the scraped legal-texts feed.
// Content may be empty when the scraper could not extract text;
// such records are excluded before chunking.
type DocumentRecord struct {
	Document string `json:"document" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Link     string `json:"link" validate:"omitempty,url"`
	Content  string `json:"content"`
}

// Chunk is a bounded, offset-tracked window of a record's content,
// the unit of embedding and retrieval. StartIndex is the rune offset
// of Text within the parent record's content.
type Chunk struct {
	Text       string `json:"text"`
	StartIndex int    `json:"start_index"`
	Document   string `json:"document"`
	Title      string `json:"title"`
	Link       string `json:"link"`
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one user or assistant contribution within a session.
// Sources is set only on assistant turns whose retrieval yielded at
// least one non-empty link; Content is always the raw model output.
type Turn struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

type AskRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
	Context []Chunk  `json:"context,omitempty"`
}
