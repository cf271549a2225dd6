package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chatforge/internal/models"
	"chatforge/pkg/config"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Request is the payload sent to the similarity-search backend. The
// backend owns the adaptive-threshold behavior; this client only asks
// for it.
type Request struct {
	Query             string  `json:"query"`
	ChatbotID         string  `json:"chatbotId"`
	Threshold         float64 `json:"threshold"`
	Limit             int     `json:"limit"`
	Model             string  `json:"model"`
	AdaptiveThreshold bool    `json:"adaptiveThreshold"`
}

type response struct {
	Documents []models.DocumentMatch `json:"documents"`
}

// Client calls the retrieval backend over HTTP. A circuit breaker keeps a
// down backend from being hammered on every turn; retrieval failures
// already degrade to an empty context upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]models.DocumentMatch]
	logger     *zap.Logger
}

func NewClient(cfg *config.RetrievalConfig, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]models.DocumentMatch](gobreaker.Settings{
		Name:        "retrieval-backend",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Retrieval breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Search returns the top matches above the threshold, already sorted by
// descending similarity by the backend.
func (c *Client) Search(ctx context.Context, req Request) ([]models.DocumentMatch, error) {
	return c.breaker.Execute(func() ([]models.DocumentMatch, error) {
		return c.search(ctx, req)
	})
}

func (c *Client) search(ctx context.Context, req Request) ([]models.DocumentMatch, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return out.Documents, nil
}
