package models

// CompletionResult is the normalized answer shape regardless of which
// provider produced it. Downstream code must not branch on the provider
// except to report UsedFallback.
type CompletionResult struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	UsedFallback bool   `json:"used_fallback"`
}
