package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
)

// mockClassifier returns canned results and counts calls.
type mockClassifier struct {
	insights    llm.InsightsResult
	result      llm.ClassifyResult
	delay       time.Duration
	calls       int
	lastDescrip string
	mu          sync.Mutex
}

func (m *mockClassifier) Classify(ctx context.Context, description string) llm.ClassifyResult {
	m.mu.Lock()
	m.calls++
	m.lastDescrip = description
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return llm.ClassifyResult{Outcome: llm.OutcomeFailed, Err: ctx.Err()}
		}
	}
	return m.result
}

func (m *mockClassifier) Insights(_ context.Context) llm.InsightsResult {
	return m.insights
}

func (m *mockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func classifierReturning(category string, confidence float64) *mockClassifier {
	return &mockClassifier{result: llm.ClassifyResult{
		Outcome:    llm.OutcomeOK,
		Category:   category,
		Confidence: confidence,
	}}
}

func failingClassifier() *mockClassifier {
	return &mockClassifier{result: llm.ClassifyResult{
		Outcome: llm.OutcomeFailed,
		Err:     common.ErrClassifierUnavailable,
	}}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	err    error
	events []model.FeedbackEvent
}

func (p *recordingPublisher) PublishFeedback(_ context.Context, event model.FeedbackEvent) error {
	p.events = append(p.events, event)
	return p.err
}

// countingRecorder tallies metrics calls.
type countingRecorder struct {
	resolved   map[model.Source]int
	outcomes   map[string]int
	overridden int
	accepted   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{resolved: map[model.Source]int{}, outcomes: map[string]int{}}
}

func (r *countingRecorder) SuggestionResolved(source model.Source) { r.resolved[source]++ }

func (r *countingRecorder) ClassifierCalled(outcome string, _ time.Duration) { r.outcomes[outcome]++ }

func (r *countingRecorder) FeedbackRecorded(overridden bool) {
	if overridden {
		r.overridden++
		return
	}
	r.accepted++
}

var errStoreDown = errors.New("database is locked")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) CreateSuggestion(context.Context, *model.SuggestionRecord) error {
	return errStoreDown
}

func (brokenStore) GetSuggestion(context.Context, int64) (*model.SuggestionRecord, error) {
	return nil, errStoreDown
}

func (brokenStore) UpdateSuggestion(context.Context, *model.SuggestionRecord) error {
	return errStoreDown
}

func (brokenStore) LatestValidatedForUser(context.Context, int64, string) (*model.SuggestionRecord, error) {
	return nil, errStoreDown
}

func (brokenStore) LatestOverriddenForKey(context.Context, string) (*model.SuggestionRecord, error) {
	return nil, errStoreDown
}
