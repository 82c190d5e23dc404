package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func userID(id int64) *int64 { return &id }

func countRecords(t *testing.T, store *storage.SQLiteStorage) int64 {
	t.Helper()
	counts, err := store.CountSuggestions(context.Background())
	require.NoError(t, err)
	return counts.Total
}

func TestResolveCategory_Classifier(t *testing.T) {
	tests := []struct {
		name       string
		classifier Classifier
		category   string
		source     model.Source
		confidence float64
	}{
		{
			name:       "classifier success",
			classifier: classifierReturning("Food", llm.MatchedConfidence),
			category:   "Food",
			source:     model.SourceGPT,
			confidence: GPTConfidence,
		},
		{
			name:       "low reported confidence is raised",
			classifier: classifierReturning(model.Uncategorized, llm.UnmatchedConfidence),
			category:   model.Uncategorized,
			source:     model.SourceGPT,
			confidence: GPTConfidence,
		},
		{
			name:       "high reported confidence is kept",
			classifier: classifierReturning("Bills", 0.93),
			category:   "Bills",
			source:     model.SourceGPT,
			confidence: 0.93,
		},
		{
			name:       "classifier failure falls back",
			classifier: failingClassifier(),
			category:   model.Uncategorized,
			source:     model.SourceLLMFallback,
			confidence: FallbackConfidence,
		},
		{
			name:       "classifier unavailable falls back",
			classifier: &mockClassifier{result: llm.ClassifyResult{Outcome: llm.OutcomeUnavailable}},
			category:   model.Uncategorized,
			source:     model.SourceLLMFallback,
			confidence: FallbackConfidence,
		},
		{
			name:       "blank category falls back",
			classifier: classifierReturning("  ", llm.MatchedConfidence),
			category:   model.Uncategorized,
			source:     model.SourceLLMFallback,
			confidence: FallbackConfidence,
		},
		{
			name:       "no classifier",
			classifier: nil,
			category:   model.Uncategorized,
			source:     model.SourceLLMFallback,
			confidence: FallbackConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			e := New(store, tt.classifier)

			got, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: "Pizza night"})
			require.NoError(t, err)

			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.source, got.Source)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)

			record, err := store.GetSuggestion(context.Background(), got.SuggestionID)
			require.NoError(t, err)
			assert.Equal(t, tt.category, record.SuggestedCategory)
			assert.Equal(t, tt.source, record.Source)
			assert.False(t, record.Validated)
			assert.Equal(t, model.AnonymousUserID, record.UserID)
		})
	}
}

func TestResolveCategory_UnavailableScenario(t *testing.T) {
	store := newTestStore(t)
	e := New(store, nil)

	got, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: "  Uber ride downtown  "})
	require.NoError(t, err)
	assert.Equal(t, model.Uncategorized, got.Category)
	assert.InDelta(t, 0.35, got.Confidence, 1e-9)
	assert.Equal(t, model.SourceLLMFallback, got.Source)

	record, err := store.GetSuggestion(context.Background(), got.SuggestionID)
	require.NoError(t, err)
	assert.Equal(t, "Uber ride downtown", record.InputText)
	assert.Equal(t, "uber ride downtown", record.NormalizedKey)
}

func TestResolveCategory_BlankDescription(t *testing.T) {
	store := newTestStore(t)
	classifier := classifierReturning("Food", llm.MatchedConfidence)
	e := New(store, classifier)

	for _, description := range []string{"", "   ", "\t\n"} {
		_, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: description})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	}
	assert.Zero(t, classifier.callCount())
	assert.Zero(t, countRecords(t, store))
}

func TestResolveCategory_PersonalMemory(t *testing.T) {
	store := newTestStore(t)
	classifier := classifierReturning("Shopping", llm.MatchedConfidence)
	e := New(store, classifier)
	ctx := context.Background()

	first, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "Netflix subscription"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &first.SuggestionID, FinalCategory: "Entertainment"})
	require.NoError(t, err)

	// punctuation and case normalize to the same key
	second, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "NETFLIX  Subscription!"})
	require.NoError(t, err)

	assert.Equal(t, "Entertainment", second.Category)
	assert.Equal(t, model.SourceMemory, second.Source)
	assert.InDelta(t, MemoryConfidence, second.Confidence, 1e-9)
	assert.NotEqual(t, first.SuggestionID, second.SuggestionID)
	assert.Equal(t, 1, classifier.callCount())

	record, err := store.GetSuggestion(ctx, second.SuggestionID)
	require.NoError(t, err)
	assert.False(t, record.Validated)
	assert.False(t, record.Overridden)
	assert.Empty(t, record.FinalCategory)
	assert.Equal(t, "NETFLIX  Subscription!", record.InputText)
}

func TestResolveCategory_GlobalMemoryOnlyFromCorrections(t *testing.T) {
	store := newTestStore(t)
	classifier := classifierReturning("Food", llm.MatchedConfidence)
	e := New(store, classifier)
	ctx := context.Background()

	// user 1 accepts the classifier answer: not shared
	accepted, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "Starbucks"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &accepted.SuggestionID, FinalCategory: "Food"})
	require.NoError(t, err)

	other, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(2), Description: "Starbucks"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceGPT, other.Source)

	// user 1 corrects a different description: shared with everyone
	corrected, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "Shell gas"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &corrected.SuggestionID, FinalCategory: "Transport"})
	require.NoError(t, err)

	shared, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(3), Description: "shell GAS"})
	require.NoError(t, err)
	assert.Equal(t, "Transport", shared.Category)
	assert.Equal(t, model.SourceMemory, shared.Source)
}

func TestResolveCategory_PersonalBeatsGlobal(t *testing.T) {
	store := newTestStore(t)
	e := New(store, classifierReturning("Other", llm.MatchedConfidence))
	ctx := context.Background()

	// user 2's correction is the newest global record
	personal, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "Amazon"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &personal.SuggestionID, FinalCategory: "Other"})
	require.NoError(t, err)

	global, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(2), Description: "Amazon"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &global.SuggestionID, FinalCategory: "Shopping"})
	require.NoError(t, err)

	got, err := e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(1), Description: "amazon"})
	require.NoError(t, err)
	assert.Equal(t, "Other", got.Category)
	assert.Equal(t, model.SourceMemory, got.Source)

	got, err = e.ResolveCategory(ctx, model.SuggestRequest{UserID: userID(5), Description: "amazon"})
	require.NoError(t, err)
	assert.Equal(t, "Shopping", got.Category)
}

func TestResolveCategory_MemoryCanonicalizesVocabulary(t *testing.T) {
	store := newTestStore(t)
	e := New(store, classifierReturning("Shopping", llm.MatchedConfidence))
	ctx := context.Background()

	first, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "Whole Foods"})
	require.NoError(t, err)
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &first.SuggestionID, FinalCategory: " food "})
	require.NoError(t, err)

	got, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "whole foods"})
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
}

func TestResolveCategory_OneRecordPerCall(t *testing.T) {
	store := newTestStore(t)
	e := New(store, classifierReturning("Food", llm.MatchedConfidence))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		got, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "Lunch"})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), countRecords(t, store))

		result, err := e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &got.SuggestionID, FinalCategory: "Food"})
		require.NoError(t, err)
		assert.Equal(t, got.SuggestionID, result.SuggestionID)
	}
}

func TestResolveCategory_PunctuationOnlyRecallsMemory(t *testing.T) {
	store := newTestStore(t)
	e := New(store, nil)
	ctx := context.Background()

	first, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "???"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceLLMFallback, first.Source)

	id := first.SuggestionID
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &id, FinalCategory: "Food"})
	require.NoError(t, err)

	second, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "!!!"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceMemory, second.Source)
	assert.Equal(t, "Food", second.Category)
	assert.InDelta(t, MemoryConfidence, second.Confidence, 1e-9)
}

func TestResolveCategory_ClassifierTimeout(t *testing.T) {
	store := newTestStore(t)
	classifier := classifierReturning("Food", llm.MatchedConfidence)
	classifier.delay = time.Second

	cfg := DefaultConfig()
	cfg.ClassifyTimeout = 20 * time.Millisecond
	e := NewWithConfig(store, classifier, cfg)

	start := time.Now()
	got, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: "slow"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, model.SourceLLMFallback, got.Source)
}

func TestResolveCategory_StorageErrorsPropagate(t *testing.T) {
	e := New(brokenStore{}, classifierReturning("Food", llm.MatchedConfidence))

	_, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: "Coffee"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, common.ErrInvalidInput)
}

func TestResolveCategory_RecordsMetrics(t *testing.T) {
	store := newTestStore(t)
	recorder := newCountingRecorder()
	cfg := DefaultConfig()
	cfg.Recorder = recorder
	e := NewWithConfig(store, failingClassifier(), cfg)

	_, err := e.ResolveCategory(context.Background(), model.SuggestRequest{Description: "Parking"})
	require.NoError(t, err)

	assert.Equal(t, 1, recorder.resolved[model.SourceLLMFallback])
	assert.Equal(t, 1, recorder.outcomes["failed"])
}

func TestResolveCategory_RecallsOffVocabularyCorrection(t *testing.T) {
	store := newTestStore(t)
	e := New(store, nil)
	ctx := context.Background()

	first, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "Bistro for two"})
	require.NoError(t, err)

	id := first.SuggestionID
	_, err = e.RecordFeedback(ctx, model.FeedbackRequest{SuggestionID: &id, FinalCategory: "Date Night"})
	require.NoError(t, err)

	again, err := e.ResolveCategory(ctx, model.SuggestRequest{Description: "bistro FOR two"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceMemory, again.Source)
	assert.Equal(t, "Date Night", again.Category)
}
