package llm

import (
	"context"
)

// Client sends one system/user prompt pair to a language model and returns
// the raw completion text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for the LLM backend.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
