package service

import (
	"context"
	"fmt"
	"time"

	"chatforge/internal/llm"
	"chatforge/internal/models"

	"go.uber.org/zap"
)

// defaultCompletionTimeout is the per-provider ceiling when none is
// configured. A primary call that exceeds it counts as overloaded and
// triggers the failover.
const defaultCompletionTimeout = 15 * time.Second

// CompletionService invokes the primary provider and, on a recognized
// overload condition, retries the same logical request once against the
// secondary provider with its fixed substitute model. The failover is
// sequential, never speculative, and is never itself retried.
type CompletionService struct {
	primary       llm.Provider
	secondary     llm.Provider
	fallbackModel string
	timeout       time.Duration
	logger        *zap.Logger
}

func NewCompletionService(primary, secondary llm.Provider, fallbackModel string, timeout time.Duration, logger *zap.Logger) *CompletionService {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &CompletionService{
		primary:       primary,
		secondary:     secondary,
		fallbackModel: fallbackModel,
		timeout:       timeout,
		logger:        logger,
	}
}

func (s *CompletionService) Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt, model string, maxTokens int, temperature float64) (*models.CompletionResult, error) {
	req := llm.Request{
		Model:       model,
		System:      systemPrompt,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	primaryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.primary.Complete(primaryCtx, req)
	if err == nil {
		result.UsedFallback = false
		return result, nil
	}

	if !llm.IsRetryable(err) {
		return nil, fmt.Errorf("primary completion failed: %w", err)
	}

	s.logger.Warn("Primary provider overloaded, failing over",
		zap.String("primary", s.primary.Name()),
		zap.String("secondary", s.secondary.Name()),
		zap.Error(err),
	)

	req.Model = s.fallbackModel

	secondaryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err = s.secondary.Complete(secondaryCtx, req)
	if err != nil {
		return nil, fmt.Errorf("fallback completion failed: %w", err)
	}

	result.UsedFallback = true
	return result, nil
}
