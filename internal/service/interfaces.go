// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/spendora/internal/model"
)

// SuggestionRepository persists suggestion records.
type SuggestionRepository interface {
	// CreateSuggestion inserts record, assigning ID and CreatedAt when unset.
	CreateSuggestion(ctx context.Context, record *model.SuggestionRecord) error
	GetSuggestion(ctx context.Context, id int64) (*model.SuggestionRecord, error)
	// UpdateSuggestion rewrites the feedback columns and user of an existing record.
	UpdateSuggestion(ctx context.Context, record *model.SuggestionRecord) error

	// LatestValidatedForUser returns the newest validated record of userID
	// for key. It returns common.ErrNotFound when none exists.
	LatestValidatedForUser(ctx context.Context, userID int64, key string) (*model.SuggestionRecord, error)
	// LatestOverriddenForKey returns the newest validated and overridden
	// record for key across all users. It returns common.ErrNotFound when none exists.
	LatestOverriddenForKey(ctx context.Context, key string) (*model.SuggestionRecord, error)
}

// TrainingSource lists records suitable for fine-tuning export.
type TrainingSource interface {
	// ListValidatedSuggestions returns every validated record, oldest first.
	ListValidatedSuggestions(ctx context.Context) ([]model.SuggestionRecord, error)
}

// SuggestionCounts holds whole-table counters.
type SuggestionCounts struct {
	Total      int64
	Feedback   int64
	Accepted   int64
	Overridden int64
	GPT        int64
}

// SourceCount is the number of records produced by one source.
type SourceCount struct {
	Source model.Source
	Count  int64
}

// CategoryCount is the validated and accepted totals for one effective category.
type CategoryCount struct {
	Category  string
	Validated int64
	Accepted  int64
}

// KPISource answers the aggregate queries behind the KPI report.
type KPISource interface {
	CountSuggestions(ctx context.Context) (SuggestionCounts, error)
	// CountBySource orders by count descending, then source ascending.
	CountBySource(ctx context.Context) ([]SourceCount, error)
	// CategoryPrecision groups validated records by effective category,
	// ordered by validated count descending, then category ascending.
	CategoryPrecision(ctx context.Context) ([]CategoryCount, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	SuggestionRepository
	TrainingSource
	KPISource

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
