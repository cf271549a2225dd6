package handlers

import (
	"context"
	"errors"

	"chatforge/internal/dto"
	"chatforge/internal/models"
	"chatforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type chatRunner interface {
	ProcessTurn(ctx context.Context, req *service.ChatRequest) (*service.ChatResponse, error)
}

type ChatHandler struct {
	chatService chatRunner
	logger      *zap.Logger
}

func NewChatHandler(chatService chatRunner, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Run one chat turn
// @Description Takes the conversation transcript and returns a grounded assistant reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat turn request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	chatbotID, err := uuid.Parse(req.ChatbotID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "chatbotId must be a valid UUID",
		})
	}

	conversationID := uuid.Nil
	if req.ConversationID != "" {
		conversationID, err = uuid.Parse(req.ConversationID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "conversationId must be a valid UUID",
			})
		}
	}

	requestID := c.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	messages := make([]models.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, models.ChatMessage{Role: m.Role, Content: m.Content})
	}

	turn := &service.ChatRequest{
		Access: service.AccessRequest{
			Authorization: c.Get("Authorization"),
			APIKey:        c.Get("X-API-Key"),
			ClientInfo:    c.Get("X-Client-Info"),
			Origin:        c.Get("Origin"),
			Referer:       c.Get("Referer"),
			Source:        req.Source,
		},
		Messages:       messages,
		ChatbotID:      chatbotID,
		ConversationID: conversationID,
		Source:         req.Source,
		WidgetID:       req.WidgetID,
		UserIdentifier: req.UserIdentifier,
		RequestID:      requestID,
	}

	resp, err := h.chatService.ProcessTurn(c.Context(), turn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		case errors.Is(err, service.ErrChatbotNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chatbot not found",
			})
		case errors.Is(err, service.ErrEmptyMessages):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "At least one message is required",
			})
		default:
			h.logger.Error("Chat turn failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Chat turn failed",
			})
		}
	}

	return c.JSON(toChatResponse(resp))
}

func toChatResponse(resp *service.ChatResponse) dto.ChatResponse {
	out := dto.ChatResponse{
		Message:      resp.Message,
		Model:        resp.Model,
		UsedFallback: resp.UsedFallback,
	}
	if resp.ConversationID != uuid.Nil {
		out.ConversationID = resp.ConversationID.String()
	}
	if !resp.Degraded {
		out.Usage = &dto.ChatUsage{
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
		}
	}
	for _, match := range resp.References {
		out.References = append(out.References, dto.ChatReference{
			ID:         match.ID,
			Name:       match.Name,
			Similarity: match.Similarity,
		})
	}
	return out
}
