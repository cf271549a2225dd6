package service

import (
	"context"
	"time"

	"chatforge/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const metricsWriteTimeout = 5 * time.Second

type metricsStore interface {
	Insert(ctx context.Context, event *models.QueryEvent) error
}

// MetricsService records query telemetry off the reply path. Writes are
// detached and every failure is logged and dropped; a down metrics
// backend has zero latency impact on the user-visible turn.
type MetricsService struct {
	store  metricsStore
	logger *zap.Logger
}

func NewMetricsService(store metricsStore, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		store:  store,
		logger: logger,
	}
}

func (s *MetricsService) Record(chatbotID uuid.UUID, query string, documentCount, outputTokens int) {
	event := &models.QueryEvent{
		ID:            uuid.New(),
		ChatbotID:     chatbotID,
		Query:         query,
		HasDocuments:  documentCount > 0,
		DocumentCount: documentCount,
		OutputTokens:  outputTokens,
		CreatedAt:     time.Now(),
	}

	go func() {
		// The request context is already unwinding; the write gets its
		// own bounded one.
		ctx, cancel := context.WithTimeout(context.Background(), metricsWriteTimeout)
		defer cancel()

		if err := s.store.Insert(ctx, event); err != nil {
			s.logger.Warn("Dropped query telemetry",
				zap.String("chatbot_id", chatbotID.String()),
				zap.Error(err),
			)
		}
	}()
}
