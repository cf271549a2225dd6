package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"chatforge/internal/models"
)

// Request is the provider-agnostic completion request. The transcript is
// passed as-is; the system prompt travels out of band because providers
// disagree on where it lives.
type Request struct {
	Model       string
	System      string
	Messages    []models.ChatMessage
	MaxTokens   int
	Temperature float64
}

// Provider is one completion backend. Implementations normalize their
// native response into CompletionResult and their native errors into
// *ProviderError.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*models.CompletionResult, error)
}

// ProviderError carries the machine-readable error classification used to
// decide whether a failover is warranted.
type ProviderError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (type=%s, status=%d)", e.Provider, e.Message, e.Type, e.StatusCode)
}

// Retryable reports whether the error is a transient overload condition
// that justifies the single failover attempt. Auth failures and malformed
// requests are not retryable.
func (e *ProviderError) Retryable() bool {
	if e.StatusCode == 429 || e.StatusCode == 529 {
		return true
	}
	switch e.Type {
	case "overloaded_error", "rate_limit_error", "rate_limit_exceeded", "server_error":
		return true
	}
	return false
}

// IsRetryable classifies any completion error: provider-reported overload,
// a request that hit the completion deadline, or a network timeout.
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
