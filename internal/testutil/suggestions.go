package testutil

import (
	"strings"
	"time"

	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/normalize"
)

// BaseTime anchors seeded history so orderings are deterministic.
var BaseTime = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// SuggestionBuilder assembles a SuggestionRecord fluently. Unset fields
// default to an anonymous, unvalidated LLM_FALLBACK suggestion.
type SuggestionBuilder struct {
	record model.SuggestionRecord
}

// NewSuggestion starts a record for a description; the normalized key is
// derived the same way the engine derives it.
func NewSuggestion(description string) *SuggestionBuilder {
	description = strings.TrimSpace(description)
	return &SuggestionBuilder{record: model.SuggestionRecord{
		InputText:         description,
		NormalizedKey:     normalize.Key(description),
		SuggestedCategory: model.Uncategorized,
		Source:            model.SourceLLMFallback,
		Confidence:        0.35,
		UserID:            model.AnonymousUserID,
		CreatedAt:         BaseTime,
	}}
}

// ForUser sets the owning user.
func (b *SuggestionBuilder) ForUser(id int64) *SuggestionBuilder {
	b.record.UserID = id
	return b
}

// Suggested sets what the engine proposed and the source's confidence.
func (b *SuggestionBuilder) Suggested(category string, source model.Source) *SuggestionBuilder {
	b.record.SuggestedCategory = category
	b.record.Source = source
	switch source {
	case model.SourceMemory:
		b.record.Confidence = 0.98
	case model.SourceGPT:
		b.record.Confidence = 0.85
	default:
		b.record.Confidence = 0.35
	}
	return b
}

// Feedback validates the record with a final category. The overridden flag
// follows the engine's case-insensitive comparison.
func (b *SuggestionBuilder) Feedback(final string) *SuggestionBuilder {
	b.record.Validated = true
	b.record.FinalCategory = final
	b.record.Overridden = !strings.EqualFold(strings.TrimSpace(final), strings.TrimSpace(b.record.SuggestedCategory))
	return b
}

// After offsets the creation time from BaseTime.
func (b *SuggestionBuilder) After(d time.Duration) *SuggestionBuilder {
	b.record.CreatedAt = BaseTime.Add(d)
	return b
}

// Build returns a fresh copy of the record.
func (b *SuggestionBuilder) Build() *model.SuggestionRecord {
	record := b.record
	return &record
}
