// Package engine resolves categories for transaction descriptions and turns
// human feedback into memory for later resolutions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/normalize"
	"github.com/Veraticus/spendora/internal/service"
)

// Confidence assigned by each decision rule.
const (
	MemoryConfidence   = 0.98
	GPTConfidence      = 0.85
	FallbackConfidence = 0.35
)

// Engine orchestrates memory lookups, the classifier and the suggestion log.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	store           service.SuggestionRepository
	classifier      Classifier
	publisher       FeedbackPublisher
	recorder        Recorder
	logger          *slog.Logger
	vocab           model.Vocabulary
	now             func() time.Time
	classifyTimeout time.Duration
}

// Config holds optional collaborators and limits for the engine.
type Config struct {
	Publisher       FeedbackPublisher
	Recorder        Recorder
	Logger          *slog.Logger
	Vocabulary      model.Vocabulary
	ClassifyTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Vocabulary:      model.DefaultVocabulary(),
		ClassifyTimeout: 10 * time.Second,
	}
}

// New creates an engine with the default configuration.
func New(store service.SuggestionRepository, classifier Classifier) *Engine {
	return NewWithConfig(store, classifier, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration. classifier may
// be nil, in which case every memory miss falls back.
func NewWithConfig(store service.SuggestionRepository, classifier Classifier, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = defaults.ClassifyTimeout
	}
	if len(cfg.Vocabulary) == 0 {
		cfg.Vocabulary = defaults.Vocabulary
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Engine{
		store:           store,
		classifier:      classifier,
		publisher:       cfg.Publisher,
		recorder:        cfg.Recorder,
		logger:          cfg.Logger,
		vocab:           cfg.Vocabulary,
		now:             time.Now,
		classifyTimeout: cfg.ClassifyTimeout,
	}
}

type decision struct {
	category   string
	source     model.Source
	confidence float64
}

// ResolveCategory picks a category for a description and logs the decision
// as a new suggestion record. Classifier problems never fail the call; only
// invalid input and storage errors do.
func (e *Engine) ResolveCategory(ctx context.Context, req model.SuggestRequest) (model.Suggestion, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return model.Suggestion{}, common.InvalidInput("description is required")
	}

	userID := model.AnonymousUserID
	if req.UserID != nil {
		userID = *req.UserID
	}

	key := normalize.Key(description)

	d, err := e.decide(ctx, userID, key, description)
	if err != nil {
		return model.Suggestion{}, err
	}

	record := &model.SuggestionRecord{
		UserID:            userID,
		InputText:         description,
		NormalizedKey:     key,
		SuggestedCategory: d.category,
		Source:            d.source,
		Confidence:        d.confidence,
		CreatedAt:         e.now(),
	}
	if err := e.store.CreateSuggestion(ctx, record); err != nil {
		return model.Suggestion{}, fmt.Errorf("failed to save suggestion: %w", err)
	}

	e.recorder.SuggestionResolved(d.source)
	e.logger.Debug("Resolved category",
		"suggestion_id", record.ID,
		"user_id", userID,
		"category", d.category,
		"source", d.source,
		"confidence", d.confidence)

	return model.Suggestion{
		SuggestionID: record.ID,
		Category:     d.category,
		Confidence:   d.confidence,
		Source:       d.source,
	}, nil
}

func (e *Engine) decide(ctx context.Context, userID int64, key, description string) (decision, error) {
	hit, found, err := e.recall(ctx, userID, key)
	if err != nil {
		return decision{}, err
	}
	if found {
		// Corrections outside the vocabulary are returned as the human wrote
		// them rather than collapsed to Uncategorized.
		return decision{
			category:   e.canonical(hit.EffectiveCategory()),
			source:     model.SourceMemory,
			confidence: MemoryConfidence,
		}, nil
	}

	return e.classify(ctx, description), nil
}

// recall checks personal memory first, then corrections made by anyone.
func (e *Engine) recall(ctx context.Context, userID int64, key string) (*model.SuggestionRecord, bool, error) {
	personal, err := e.store.LatestValidatedForUser(ctx, userID, key)
	if err == nil {
		return personal, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("personal memory lookup failed: %w", err)
	}

	global, err := e.store.LatestOverriddenForKey(ctx, key)
	if err == nil {
		return global, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("global memory lookup failed: %w", err)
	}

	return nil, false, nil
}

func (e *Engine) classify(ctx context.Context, description string) decision {
	fallback := decision{
		category:   model.Uncategorized,
		source:     model.SourceLLMFallback,
		confidence: FallbackConfidence,
	}

	if e.classifier == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, e.classifyTimeout)
	defer cancel()

	start := time.Now()
	result := e.classifier.Classify(ctx, description)
	e.recorder.ClassifierCalled(result.Outcome.String(), time.Since(start))

	switch result.Outcome {
	case llm.OutcomeOK:
		if strings.TrimSpace(result.Category) == "" {
			return fallback
		}
		return decision{
			category:   e.canonical(result.Category),
			source:     model.SourceGPT,
			confidence: max(result.Confidence, GPTConfidence),
		}
	case llm.OutcomeFailed:
		e.logger.Warn("Classifier failed, falling back", "error", result.Err)
	}

	return fallback
}

// canonical returns the vocabulary spelling of category when it has one.
// Human corrections outside the vocabulary are kept as written.
func (e *Engine) canonical(category string) string {
	if c, ok := e.vocab.Canonical(category); ok {
		return c
	}
	return strings.TrimSpace(category)
}
