package handlers

import (
	"context"
	"errors"

	"chatforge/internal/dto"
	"chatforge/internal/models"
	"chatforge/internal/repository"
	"chatforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type historyReader interface {
	History(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, []models.Message, error)
}

type callerGate interface {
	Authorize(req service.AccessRequest) (service.CallerKind, error)
}

type ConversationHandler struct {
	conversations historyReader
	gate          callerGate
	logger        *zap.Logger
}

func NewConversationHandler(conversations historyReader, gate callerGate, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		gate:          gate,
		logger:        logger,
	}
}

// Get godoc
// @Summary Fetch a conversation transcript
// @Description Returns the conversation and its messages in turn order
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} dto.ConversationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/conversations/{id} [get]
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	if _, err := h.gate.Authorize(service.AccessRequest{
		Authorization: c.Get("Authorization"),
		APIKey:        c.Get("X-API-Key"),
		ClientInfo:    c.Get("X-Client-Info"),
		Origin:        c.Get("Origin"),
		Referer:       c.Get("Referer"),
	}); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a valid UUID",
		})
	}

	conv, messages, err := h.conversations.History(c.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}
	if err != nil {
		h.logger.Error("Failed to load conversation", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversation",
		})
	}

	return c.JSON(toConversationResponse(conv, messages))
}

func toConversationResponse(conv *models.Conversation, messages []models.Message) dto.ConversationResponse {
	out := dto.ConversationResponse{
		ID:        conv.ID.String(),
		ChatbotID: conv.ChatbotID.String(),
		CreatedAt: conv.CreatedAt,
		Messages:  make([]dto.ConversationMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		out.Messages = append(out.Messages, dto.ConversationMessage{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Model:     msg.Metadata.Model,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out
}
