package models

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a chatbot has no retrieval_settings row yet.
const (
	DefaultSimilarityThreshold = 0.65
	DefaultMaxResults          = 4
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
)

type RetrievalSettings struct {
	ChatbotID           uuid.UUID `db:"chatbot_id" json:"chatbot_id"`
	SimilarityThreshold float64   `db:"similarity_threshold" json:"similarity_threshold"`
	MaxResults          int       `db:"max_results" json:"max_results"`
	ChunkSize           int       `db:"chunk_size" json:"chunk_size"`
	ChunkOverlap        int       `db:"chunk_overlap" json:"chunk_overlap"`
	EmbeddingModel      string    `db:"embedding_model" json:"embedding_model"`
	UseCache            bool      `db:"use_cache" json:"use_cache"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultRetrievalSettings returns the documented defaults for a chatbot
// that has never been configured.
func DefaultRetrievalSettings(chatbotID uuid.UUID, embeddingModel string) *RetrievalSettings {
	now := time.Now()
	return &RetrievalSettings{
		ChatbotID:           chatbotID,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxResults:          DefaultMaxResults,
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		EmbeddingModel:      embeddingModel,
		UseCache:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
