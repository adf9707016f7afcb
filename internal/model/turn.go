package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a consultant chat session. Turns are
// append-only within a session; the full ordered sequence is resent as
// context on every new turn, so the boundary stays stateless from the
// client's perspective.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn builds a turn with a fresh ordering-stable identifier.
func NewTurn(role Role, text string) ConversationTurn {
	return ConversationTurn{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
