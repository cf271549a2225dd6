package dto

import "time"

type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationResponse struct {
	ID        string                `json:"id"`
	ChatbotID string                `json:"chatbot_id"`
	CreatedAt time.Time             `json:"created_at"`
	Messages  []ConversationMessage `json:"messages"`
}
