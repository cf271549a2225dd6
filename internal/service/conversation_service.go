package service

import (
	"context"
	"fmt"
	"time"

	"chatforge/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type conversationStore interface {
	Insert(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
}

type messageStore interface {
	Insert(ctx context.Context, msg *models.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}

// ConversationService is the ledger: it resolves the conversation identity
// for a turn and appends the message pair exactly once.
type ConversationService struct {
	conversations conversationStore
	messages      messageStore
	logger        *zap.Logger
}

func NewConversationService(conversations conversationStore, messages messageStore, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}
}

// EnsureParams identifies the conversation a turn belongs to. A zero ID
// means the caller has no conversation yet and one is registered here.
type EnsureParams struct {
	ID             uuid.UUID
	ChatbotID      uuid.UUID
	Source         string
	WidgetID       string
	UserIdentifier string
}

// EnsureConversation returns the conversation id for the turn. A
// caller-supplied id is trusted as-is; the caller owns its validity. A
// generated id is inserted with conflict-ignore semantics, so a
// concurrent first turn for the same id can never fail the other.
func (s *ConversationService) EnsureConversation(ctx context.Context, params EnsureParams) (uuid.UUID, error) {
	if params.ID != uuid.Nil {
		return params.ID, nil
	}

	conv := &models.Conversation{
		ID:             uuid.New(),
		ChatbotID:      params.ChatbotID,
		UserIdentifier: params.UserIdentifier,
		Metadata: models.ConversationMetadata{
			Source:         params.Source,
			WidgetID:       params.WidgetID,
			AutoRegistered: true,
		},
		CreatedAt: time.Now(),
	}

	if err := s.conversations.Insert(ctx, conv); err != nil {
		return uuid.Nil, fmt.Errorf("failed to register conversation: %w", err)
	}

	return conv.ID, nil
}

// AppendTurn writes the user message and the assistant message for one
// turn, using the text actually sent to the model and the text it
// actually returned. Both inserts share the request id; replays hit the
// uniqueness constraint and become no-ops.
func (s *ConversationService) AppendTurn(ctx context.Context, conversationID uuid.UUID, requestID, userText, assistantText string, meta models.MessageMetadata) error {
	now := time.Now()

	userMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        userText,
		RequestID:      requestID,
		CreatedAt:      now,
	}
	if err := s.messages.Insert(ctx, userMsg); err != nil {
		return fmt.Errorf("failed to append user message: %w", err)
	}

	assistantMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        assistantText,
		RequestID:      requestID,
		Metadata:       meta,
		CreatedAt:      now,
	}
	if err := s.messages.Insert(ctx, assistantMsg); err != nil {
		return fmt.Errorf("failed to append assistant message: %w", err)
	}

	return nil
}

// History returns the conversation and its transcript in turn order,
// used when a widget reloads mid-conversation.
func (s *ConversationService) History(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, []models.Message, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	return conv, messages, nil
}
