package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatforge/internal/models"
	"chatforge/internal/repository"
	"chatforge/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	settingsCacheTTL    = 10 * time.Minute
	settingsCachePrefix = "settings:"
)

type settingsStore interface {
	GetByChatbotID(ctx context.Context, chatbotID uuid.UUID) (*models.RetrievalSettings, error)
	CreateDefault(ctx context.Context, settings *models.RetrievalSettings) error
}

// SettingsService serves per-chatbot retrieval configuration cache-aside:
// cache, then store, then lazily created defaults. It never fails the
// turn; when both the cache and the store are unreachable it answers with
// in-memory defaults.
type SettingsService struct {
	store          settingsStore
	cache          cache.Cache
	embeddingModel string
	logger         *zap.Logger
}

func NewSettingsService(store settingsStore, cacheClient cache.Cache, embeddingModel string, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:          store,
		cache:          cacheClient,
		embeddingModel: embeddingModel,
		logger:         logger,
	}
}

func (s *SettingsService) Get(ctx context.Context, chatbotID uuid.UUID) *models.RetrievalSettings {
	key := settingsCachePrefix + chatbotID.String()

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var settings models.RetrievalSettings
		if err := json.Unmarshal([]byte(cached), &settings); err == nil {
			return &settings
		}
		s.logger.Warn("Discarding malformed settings cache entry", zap.String("chatbot_id", chatbotID.String()))
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Settings cache unavailable, falling back to store", zap.Error(err))
	}

	settings, err := s.load(ctx, chatbotID)
	if err != nil {
		s.logger.Error("Settings store unavailable, using in-memory defaults",
			zap.String("chatbot_id", chatbotID.String()),
			zap.Error(err),
		)
		return models.DefaultRetrievalSettings(chatbotID, s.embeddingModel)
	}

	if payload, err := json.Marshal(settings); err == nil {
		// Best-effort population; a redundant or lost write is harmless.
		if err := s.cache.Set(ctx, key, string(payload), settingsCacheTTL); err != nil {
			s.logger.Debug("Settings cache write failed", zap.Error(err))
		}
	}

	return settings
}

// load reads the row, creating the documented defaults on first use. The
// row is re-read after the insert so a concurrent creator's values win
// consistently.
func (s *SettingsService) load(ctx context.Context, chatbotID uuid.UUID) (*models.RetrievalSettings, error) {
	settings, err := s.store.GetByChatbotID(ctx, chatbotID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultRetrievalSettings(chatbotID, s.embeddingModel)
	if err := s.store.CreateDefault(ctx, defaults); err != nil {
		return nil, err
	}

	return s.store.GetByChatbotID(ctx, chatbotID)
}
