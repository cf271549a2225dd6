package repository

import (
	"context"
	"encoding/json"

	"chatforge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MessageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMessageRepository(db *pgxpool.Pool, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a message. Messages carry a unique
// (conversation_id, request_id, role) index; a replayed turn hits the
// constraint and the insert is ignored rather than duplicated.
func (r *MessageRepository) Insert(ctx context.Context, msg *models.Message) error {
	metadata, err := json.Marshal(msg.Metadata)
	if err != nil {
		return err
	}

	var requestID any
	if msg.RequestID != "" {
		requestID = msg.RequestID
	}

	query := squirrel.Insert("messages").
		Columns("id", "conversation_id", "role", "content", "request_id", "metadata", "created_at").
		Values(msg.ID, msg.ConversationID, msg.Role, msg.Content, requestID, metadata, msg.CreatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByConversation returns the transcript in insertion order.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	query := squirrel.Select("id", "conversation_id", "role", "content", "request_id", "metadata", "created_at").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC", "role DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var requestID *string
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &requestID, &metadata, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if requestID != nil {
			msg.RequestID = *requestID
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
				r.logger.Warn("Failed to decode message metadata",
					zap.String("message_id", msg.ID.String()),
					zap.Error(err),
				)
			}
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
