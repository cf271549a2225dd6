package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryEvent is one telemetry row per chat turn. Writes are best-effort
// and may be dropped without affecting the caller.
type QueryEvent struct {
	ID            uuid.UUID `db:"id"`
	ChatbotID     uuid.UUID `db:"chatbot_id"`
	Query         string    `db:"query"`
	HasDocuments  bool      `db:"has_documents"`
	DocumentCount int       `db:"document_count"`
	OutputTokens  int       `db:"output_tokens"`
	CreatedAt     time.Time `db:"created_at"`
}
