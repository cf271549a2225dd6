package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ConversationMetadata records where a conversation came from.
type ConversationMetadata struct {
	Source         string `json:"source,omitempty"`
	WidgetID       string `json:"widget_id,omitempty"`
	AutoRegistered bool   `json:"auto_registered,omitempty"`
}

// Conversation is a thread of messages between one end user and one
// chatbot. Rows are inserted at most once per id; a second insert attempt
// for the same id is a no-op.
type Conversation struct {
	ID             uuid.UUID            `db:"id"`
	ChatbotID      uuid.UUID            `db:"chatbot_id"`
	UserIdentifier string               `db:"user_identifier"`
	Metadata       ConversationMetadata `db:"metadata"` // stored as JSONB
	CreatedAt      time.Time            `db:"created_at"`
}

// MessageMetadata records how the message was produced.
type MessageMetadata struct {
	Model        string `json:"model,omitempty"`
	UsedFallback bool   `json:"used_fallback,omitempty"`
}

// Message is append-only; rows are never mutated after insert. RequestID
// identifies the turn that wrote the message so a retried turn cannot
// insert a second pair.
type Message struct {
	ID             uuid.UUID       `db:"id"`
	ConversationID uuid.UUID       `db:"conversation_id"`
	Role           MessageRole     `db:"role"`
	Content        string          `db:"content"`
	RequestID      string          `db:"request_id"`
	Metadata       MessageMetadata `db:"metadata"` // stored as JSONB
	CreatedAt      time.Time       `db:"created_at"`
}

// ChatMessage is a single entry of the transcript supplied by the caller.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
