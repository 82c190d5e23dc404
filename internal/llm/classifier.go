package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/model"
)

// Outcome describes how a classifier call ended.
type Outcome int

// Classifier call outcomes.
const (
	OutcomeOK Outcome = iota
	OutcomeUnavailable
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Confidence reported for a successful classification.
const (
	MatchedConfidence   = 0.85
	UnmatchedConfidence = 0.45
)

var errEmptyResponse = errors.New("empty response from model")

// ClassifyResult is the result of one categorization call. Category and
// Confidence are set only when Outcome is OutcomeOK.
type ClassifyResult struct {
	Err        error
	Category   string
	Confidence float64
	Outcome    Outcome
}

// InsightsResult is the result of one insights call.
type InsightsResult struct {
	Err     error
	Lines   []string
	Outcome Outcome
}

// Classifier asks a language model for a category drawn from a fixed vocabulary.
type Classifier struct {
	client       Client
	matcher      *CategoryMatcher
	logger       *slog.Logger
	rateLimiter  *rateLimiter
	systemPrompt string
}

// NewClassifier creates a classifier for the configured provider. A missing
// provider produces a classifier that always reports OutcomeUnavailable.
func NewClassifier(cfg Config, vocab model.Vocabulary, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, vocab, cfg.RateLimit, logger), nil
}

// NewClassifierWithClient wraps an existing client. client may be nil.
func NewClassifierWithClient(client Client, vocab model.Vocabulary, rateLimit int, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		client:       client,
		matcher:      NewCategoryMatcher(vocab),
		logger:       logger,
		rateLimiter:  newRateLimiter(rateLimit),
		systemPrompt: CategorizationPrompt(vocab),
	}
}

// Available reports whether a backend is configured.
func (c *Classifier) Available() bool {
	return c.client != nil
}

// Classify asks the model to categorize description. Network failures,
// cancellation and blank replies all end as OutcomeFailed; the caller's
// context is the only deadline.
func (c *Classifier) Classify(ctx context.Context, description string) ClassifyResult {
	if c.client == nil {
		return ClassifyResult{Outcome: OutcomeUnavailable}
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return classifyFailed(err)
	}

	raw, err := c.client.Complete(ctx, c.systemPrompt, TransactionNote(description))
	if err != nil {
		c.logger.Warn("classifier request failed", "error", err)
		return classifyFailed(err)
	}
	if strings.TrimSpace(raw) == "" {
		c.logger.Warn("classifier returned an empty response")
		return classifyFailed(errEmptyResponse)
	}

	category := c.matcher.Match(raw)
	confidence := MatchedConfidence
	if category == model.Uncategorized {
		confidence = UnmatchedConfidence
	}

	c.logger.Debug("classified description",
		"category", category,
		"confidence", confidence,
		"raw", raw)

	return ClassifyResult{
		Outcome:    OutcomeOK,
		Category:   category,
		Confidence: confidence,
	}
}

// Insights asks the model for up to three short spending insights.
func (c *Classifier) Insights(ctx context.Context) InsightsResult {
	if c.client == nil {
		return InsightsResult{Outcome: OutcomeUnavailable}
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return insightsFailed(err)
	}

	raw, err := c.client.Complete(ctx, InsightsSystemPrompt, InsightsUserPrompt)
	if err != nil {
		c.logger.Warn("insights request failed", "error", err)
		return insightsFailed(err)
	}

	return InsightsResult{Outcome: OutcomeOK, Lines: ParseInsights(raw)}
}

// Close releases backend resources, if the backend holds any.
func (c *Classifier) Close() error {
	if closer, ok := c.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func classifyFailed(err error) ClassifyResult {
	return ClassifyResult{
		Outcome: OutcomeFailed,
		Err:     fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err),
	}
}

func insightsFailed(err error) InsightsResult {
	return InsightsResult{
		Outcome: OutcomeFailed,
		Err:     fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err),
	}
}
