package repository

import (
	"context"

	"chatforge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MetricsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMetricsRepository(db *pgxpool.Pool, logger *zap.Logger) *MetricsRepository {
	return &MetricsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MetricsRepository) Insert(ctx context.Context, event *models.QueryEvent) error {
	query := squirrel.Insert("query_events").
		Columns("id", "chatbot_id", "query", "has_documents", "document_count", "output_tokens", "created_at").
		Values(event.ID, event.ChatbotID, event.Query, event.HasDocuments, event.DocumentCount, event.OutputTokens, event.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
