package repository

import (
	"context"
	"errors"

	"chatforge/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SettingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSettingsRepository(db *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SettingsRepository) GetByChatbotID(ctx context.Context, chatbotID uuid.UUID) (*models.RetrievalSettings, error) {
	query := squirrel.Select("chatbot_id", "similarity_threshold", "max_results", "chunk_size",
		"chunk_overlap", "embedding_model", "use_cache", "created_at", "updated_at").
		From("retrieval_settings").
		Where(squirrel.Eq{"chatbot_id": chatbotID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s models.RetrievalSettings
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.ChatbotID, &s.SimilarityThreshold, &s.MaxResults, &s.ChunkSize,
		&s.ChunkOverlap, &s.EmbeddingModel, &s.UseCache, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// CreateDefault inserts the documented defaults for a chatbot. A
// concurrent insert for the same chatbot is ignored; the caller re-reads
// the canonical row afterwards.
func (r *SettingsRepository) CreateDefault(ctx context.Context, s *models.RetrievalSettings) error {
	query := squirrel.Insert("retrieval_settings").
		Columns("chatbot_id", "similarity_threshold", "max_results", "chunk_size",
			"chunk_overlap", "embedding_model", "use_cache", "created_at", "updated_at").
		Values(s.ChatbotID, s.SimilarityThreshold, s.MaxResults, s.ChunkSize,
			s.ChunkOverlap, s.EmbeddingModel, s.UseCache, s.CreatedAt, s.UpdatedAt).
		Suffix("ON CONFLICT (chatbot_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
