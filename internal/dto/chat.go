package dto

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Messages       []ChatMessage `json:"messages" validate:"required,min=1"`
	ChatbotID      string        `json:"chatbotId" validate:"required,uuid"`
	ConversationID string        `json:"conversationId,omitempty"`
	Source         string        `json:"source,omitempty"`
	WidgetID       string        `json:"widgetId,omitempty"`
	UserIdentifier string        `json:"userIdentifier,omitempty"`
}

type ChatUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatReference points at a grounding document without echoing its text.
type ChatReference struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

type ChatResponse struct {
	Message        string          `json:"message"`
	Model          string          `json:"model"`
	Usage          *ChatUsage      `json:"usage,omitempty"`
	ConversationID string          `json:"conversation_id"`
	References     []ChatReference `json:"references,omitempty"`
	UsedFallback   bool            `json:"used_fallback,omitempty"`
}
