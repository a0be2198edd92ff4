package model

import (
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/types"
)

// Member is a participant of a group conversation
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupMessage is one message of a group conversation
type GroupMessage struct {
	SessionID   string    `json:"session_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Text        string    `json:"text"`
	IsAssistant bool      `json:"is_assistant"`
	PostedAt    time.Time `json:"posted_at"`

	// Members of the session as known to the sender; not persisted
	Members []Member `json:"-"`
}

// ResponseDecision is the verdict of the response-worthiness heuristic
type ResponseDecision struct {
	Respond bool                 `json:"respond"`
	Reason  types.ResponseReason `json:"reason"`
}
