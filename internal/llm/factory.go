package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedProvider is returned for an unknown llm.provider value.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// NewClient creates a raw LLM client based on the provided configuration.
// An empty provider, or "none", yields a nil client: the classifier is then
// unavailable rather than broken.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none":
		return nil, nil
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	case "gemini":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
