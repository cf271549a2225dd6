package repository

import (
	"context"
	"encoding/json"
	"errors"

	"chatforge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ConversationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewConversationRepository(db *pgxpool.Pool, logger *zap.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// Insert creates the conversation row if it does not exist yet. The id
// carries a uniqueness constraint and a duplicate insert is ignored, so
// two concurrent first-time turns for the same conversation cannot fail
// each other.
func (r *ConversationRepository) Insert(ctx context.Context, conv *models.Conversation) error {
	metadata, err := json.Marshal(conv.Metadata)
	if err != nil {
		return err
	}

	query := squirrel.Insert("conversations").
		Columns("id", "chatbot_id", "user_identifier", "metadata", "created_at").
		Values(conv.ID, conv.ChatbotID, conv.UserIdentifier, metadata, conv.CreatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := squirrel.Select("id", "chatbot_id", "user_identifier", "metadata", "created_at").
		From("conversations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var conv models.Conversation
	var metadata []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&conv.ID, &conv.ChatbotID, &conv.UserIdentifier, &metadata, &conv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &conv.Metadata); err != nil {
			r.logger.Warn("Failed to decode conversation metadata",
				zap.String("conversation_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return &conv, nil
}
