package llm

import (
	"context"
	"errors"
	"fmt"

	"chatforge/internal/models"
	"chatforge/pkg/config"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient wraps the chat completions API behind the Provider contract.
type OpenAIClient struct {
	client *openai.Client
	logger *zap.Logger
}

func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*models.CompletionResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		if m.Role == string(models.RoleSystem) {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{
			Provider: c.Name(),
			Type:     "empty_response",
			Message:  "no choices in response",
		}
	}

	return &models.CompletionResult{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *OpenAIClient) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		errType := apiErr.Type
		if code, ok := apiErr.Code.(string); ok && code != "" {
			errType = code
		}
		c.logger.Warn("OpenAI API error",
			zap.Int("status", apiErr.HTTPStatusCode),
			zap.String("type", errType),
		)
		return &ProviderError{
			Provider:   c.Name(),
			StatusCode: apiErr.HTTPStatusCode,
			Type:       errType,
			Message:    apiErr.Message,
		}
	}
	return fmt.Errorf("openai request failed: %w", err)
}
