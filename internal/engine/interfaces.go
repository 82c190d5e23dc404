package engine

import (
	"context"
	"time"

	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
)

// Classifier defines the contract for the external category classifier.
// Implementations report failures through the result outcome, never by panicking.
type Classifier interface {
	Classify(ctx context.Context, description string) llm.ClassifyResult
	Insights(ctx context.Context) llm.InsightsResult
}

// FeedbackPublisher announces feedback that has been persisted.
type FeedbackPublisher interface {
	PublishFeedback(ctx context.Context, event model.FeedbackEvent) error
}

// Recorder receives decision metrics.
type Recorder interface {
	SuggestionResolved(source model.Source)
	ClassifierCalled(outcome string, elapsed time.Duration)
	FeedbackRecorded(overridden bool)
}

type nopRecorder struct{}

func (nopRecorder) SuggestionResolved(model.Source)        {}
func (nopRecorder) ClassifierCalled(string, time.Duration) {}
func (nopRecorder) FeedbackRecorded(bool)                  {}
