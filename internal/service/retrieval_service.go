package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatforge/internal/models"
	"chatforge/internal/search"
	"chatforge/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	retrievalCacheTTL    = 5 * time.Minute
	retrievalCachePrefix = "retrieval:"
	// Cache keys truncate the query so near-identical repeated questions
	// share an entry without unbounded key growth.
	retrievalKeyQueryLen = 100
)

type searchClient interface {
	Search(ctx context.Context, req search.Request) ([]models.DocumentMatch, error)
}

// RetrievalService fetches the document snippets grounding a reply. Every
// failure degrades to an empty result; a missing context must never abort
// the turn.
type RetrievalService struct {
	search searchClient
	cache  cache.Cache
	logger *zap.Logger
}

func NewRetrievalService(client searchClient, cacheClient cache.Cache, logger *zap.Logger) *RetrievalService {
	return &RetrievalService{
		search: client,
		cache:  cacheClient,
		logger: logger,
	}
}

func (s *RetrievalService) Retrieve(ctx context.Context, query string, chatbotID uuid.UUID, settings *models.RetrievalSettings) []models.DocumentMatch {
	query = strings.TrimSpace(query)
	if query == "" || chatbotID == uuid.Nil {
		return nil
	}

	key := cacheKey(chatbotID, query)
	if settings.UseCache {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var matches []models.DocumentMatch
			if err := json.Unmarshal([]byte(cached), &matches); err == nil {
				return matches
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Retrieval cache unavailable", zap.Error(err))
		}
	}

	matches, err := s.search.Search(ctx, search.Request{
		Query:     query,
		ChatbotID: chatbotID.String(),
		Threshold: settings.SimilarityThreshold,
		Limit:     settings.MaxResults,
		Model:     settings.EmbeddingModel,
		// Let the backend relax the threshold if the configured cut
		// returns nothing.
		AdaptiveThreshold: true,
	})
	if err != nil {
		s.logger.Warn("Document retrieval failed, continuing without context",
			zap.String("chatbot_id", chatbotID.String()),
			zap.Error(err),
		)
		return nil
	}

	if len(matches) > settings.MaxResults {
		matches = matches[:settings.MaxResults]
	}

	if settings.UseCache {
		if payload, err := json.Marshal(matches); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), retrievalCacheTTL); err != nil {
				s.logger.Debug("Retrieval cache write failed", zap.Error(err))
			}
		}
	}

	return matches
}

// BuildContext renders the matches into the grounding block injected into
// the system prompt. An empty match list renders to an empty string and
// the prompt builder omits the grounding section entirely.
func (s *RetrievalService) BuildContext(matches []models.DocumentMatch) string {
	if len(matches) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, match := range matches {
		builder.WriteString(fmt.Sprintf("[%s]\n", match.Name))
		builder.WriteString(match.Content)
		builder.WriteString("\n\n")
	}

	return strings.TrimRight(builder.String(), "\n")
}

func cacheKey(chatbotID uuid.UUID, query string) string {
	normalized := strings.ToLower(query)
	if len(normalized) > retrievalKeyQueryLen {
		normalized = normalized[:retrievalKeyQueryLen]
	}
	return retrievalCachePrefix + chatbotID.String() + ":" + normalized
}
