// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"
)

// AnonymousUserID owns suggestions submitted without a user.
const AnonymousUserID int64 = 0

// Source records which rule produced a suggested category.
type Source string

// Source constants.
const (
	SourceMemory      Source = "MEMORY"
	SourceGPT         Source = "GPT"
	SourceLLMFallback Source = "LLM_FALLBACK"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceMemory, SourceGPT, SourceLLMFallback:
		return true
	}
	return false
}

// SuggestionRecord is one categorization decision and its eventual human outcome.
// FinalCategory is empty until the suggestion has been validated.
type SuggestionRecord struct {
	CreatedAt         time.Time
	InputText         string
	NormalizedKey     string
	SuggestedCategory string
	FinalCategory     string
	Source            Source
	ID                int64
	UserID            int64
	Confidence        float64
	Validated         bool
	Overridden        bool
}

// EffectiveCategory returns the human-confirmed category when present,
// otherwise the suggested one.
func (r *SuggestionRecord) EffectiveCategory() string {
	if strings.TrimSpace(r.FinalCategory) != "" {
		return r.FinalCategory
	}
	return r.SuggestedCategory
}

// SuggestRequest asks for a category for a free-text description.
type SuggestRequest struct {
	UserID      *int64 `json:"userId,omitempty"`
	Description string `json:"description"`
}

// Suggestion is the outcome of a category resolution.
type Suggestion struct {
	Category     string  `json:"category"`
	Source       Source  `json:"source"`
	SuggestionID int64   `json:"suggestionId"`
	Confidence   float64 `json:"confidence"`
}

// FeedbackRequest confirms or corrects a previous suggestion.
type FeedbackRequest struct {
	SuggestionID  *int64 `json:"suggestionId"`
	UserID        *int64 `json:"userId,omitempty"`
	FinalCategory string `json:"finalCategory"`
}

// FeedbackResult reports the stored outcome of a feedback submission.
type FeedbackResult struct {
	FinalCategory string `json:"finalCategory"`
	SuggestionID  int64  `json:"suggestionId"`
	Overridden    bool   `json:"overridden"`
}

// FeedbackEvent is emitted after feedback has been persisted.
type FeedbackEvent struct {
	RecordedAt        time.Time `json:"recordedAt"`
	InputText         string    `json:"inputText"`
	SuggestedCategory string    `json:"suggestedCategory"`
	FinalCategory     string    `json:"finalCategory"`
	Source            Source    `json:"source"`
	SuggestionID      int64     `json:"suggestionId"`
	UserID            int64     `json:"userId"`
	Overridden        bool      `json:"overridden"`
}

// Insights holds a handful of short spending insights.
type Insights struct {
	Lines []string `json:"lines"`
}
