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

type ChatbotRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatbotRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatbotRepository {
	return &ChatbotRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChatbotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chatbot, error) {
	query := squirrel.Select("id", "owner_id", "name", "model", "behavior", "created_at", "updated_at").
		From("chatbots").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var bot models.Chatbot
	var behaviorData []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&bot.ID, &bot.OwnerID, &bot.Name, &bot.Model, &behaviorData, &bot.CreatedAt, &bot.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(behaviorData) > 0 {
		if err := json.Unmarshal(behaviorData, &bot.Behavior); err != nil {
			r.logger.Warn("Failed to decode chatbot behavior",
				zap.String("chatbot_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return &bot, nil
}
