package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies where a chat turn originated.
type Channel string

const (
	ChannelWidget    Channel = "widget"
	ChannelDashboard Channel = "dashboard"
	ChannelWhatsApp  Channel = "whatsapp"
)

// NarrowBandwidth reports whether the channel favors short replies.
// Messaging channels render long-form text poorly.
func (c Channel) NarrowBandwidth() bool {
	return c == ChannelWhatsApp
}

// ChatbotBehavior drives the system prompt. Empty fields are omitted from
// the rendered prompt, never defaulted to placeholder text.
type ChatbotBehavior struct {
	Tone             string `json:"tone"`
	Style            string `json:"style"`
	Language         string `json:"language"`
	UseEmojis        bool   `json:"useEmojis"`
	AskQuestions     bool   `json:"askQuestions"`
	SuggestSolutions bool   `json:"suggestSolutions"`
	Instructions     string `json:"instructions"`
	Greeting         string `json:"greeting"`
}

type Chatbot struct {
	ID        uuid.UUID       `db:"id"`
	OwnerID   uuid.UUID       `db:"owner_id"`
	Name      string          `db:"name"`
	Model     string          `db:"model"`
	Behavior  ChatbotBehavior `db:"behavior"` // stored as JSONB
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
