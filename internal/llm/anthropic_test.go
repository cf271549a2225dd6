package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatforge/internal/models"
	"chatforge/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnthropicTestClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAnthropicClient(&config.AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Version: "2023-06-01",
	}, zap.NewNop())
}

func TestAnthropicCompleteSuccess(t *testing.T) {
	var captured anthropicRequest
	client := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"model": "claude-sonnet-4-20250514",
			"content": []map[string]any{
				{"type": "text", "text": "Hello"},
				{"type": "text", "text": ", world."},
			},
			"usage": map[string]int{"input_tokens": 10, "output_tokens": 4},
		})
	})

	result, err := client.Complete(context.Background(), Request{
		Model:     "claude-sonnet-4-20250514",
		System:    "You are helpful.",
		MaxTokens: 1024,
		Messages: []models.ChatMessage{
			{Role: "system", Content: "stray system entry"},
			{Role: "user", Content: "hi"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", result.Text, "text blocks are concatenated")
	assert.Equal(t, "claude-sonnet-4-20250514", result.Model)
	assert.Equal(t, 10, result.InputTokens)
	assert.Equal(t, 4, result.OutputTokens)
	assert.False(t, result.UsedFallback)

	assert.Equal(t, "You are helpful.", captured.System)
	require.Len(t, captured.Messages, 1, "transcript system entries are dropped")
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestAnthropicCompleteOverloaded(t *testing.T) {
	client := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]string{
				"type":    "overloaded_error",
				"message": "Overloaded",
			},
		})
	})

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-20250514",
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 529, provErr.StatusCode)
	assert.Equal(t, "overloaded_error", provErr.Type)
	assert.True(t, IsRetryable(err))
}

func TestAnthropicCompleteAuthFailure(t *testing.T) {
	client := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]string{
				"type":    "authentication_error",
				"message": "invalid x-api-key",
			},
		})
	})

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-20250514",
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "authentication_error", provErr.Type)
	assert.False(t, IsRetryable(err))
}

func TestAnthropicCompleteUnparseableError(t *testing.T) {
	client := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-20250514",
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadGateway, provErr.StatusCode)
	assert.Equal(t, "api_error", provErr.Type)
}

func TestAnthropicCompleteEmptyContent(t *testing.T) {
	client := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":   "claude-sonnet-4-20250514",
			"content": []map[string]any{},
			"usage":   map[string]int{},
		})
	})

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-20250514",
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "empty_response", provErr.Type)
}
