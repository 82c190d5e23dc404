package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/service"
)

// CountSuggestions returns the whole-table counters used by the KPI report.
func (s *sqlStore) CountSuggestions(ctx context.Context) (service.SuggestionCounts, error) {
	if err := validateContext(ctx); err != nil {
		return service.SuggestionCounts{}, err
	}

	var counts service.SuggestionCounts
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN validated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN validated AND NOT overridden THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN validated AND overridden THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN source = ? THEN 1 ELSE 0 END), 0)
		FROM ai_suggestions
	`), string(model.SourceGPT)).Scan(
		&counts.Total,
		&counts.Feedback,
		&counts.Accepted,
		&counts.Overridden,
		&counts.GPT,
	)
	if err != nil {
		return service.SuggestionCounts{}, fmt.Errorf("failed to count suggestions: %w", err)
	}

	return counts, nil
}

// CountBySource groups all suggestions by source.
func (s *sqlStore) CountBySource(ctx context.Context) ([]service.SourceCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) AS n
		FROM ai_suggestions
		GROUP BY source
		ORDER BY n DESC, source ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count suggestions by source: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []service.SourceCount{}
	for rows.Next() {
		var (
			source string
			count  int64
		)
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts = append(counts, service.SourceCount{Source: model.Source(source), Count: count})
	}

	return counts, rows.Err()
}

// CategoryPrecision groups validated suggestions by effective category.
func (s *sqlStore) CategoryPrecision(ctx context.Context) ([]service.CategoryCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			COALESCE(NULLIF(final_category, ''), suggested_category) AS category,
			COUNT(*) AS n,
			COALESCE(SUM(CASE WHEN overridden THEN 0 ELSE 1 END), 0) AS accepted
		FROM ai_suggestions
		WHERE validated = TRUE
		GROUP BY COALESCE(NULLIF(final_category, ''), suggested_category)
		ORDER BY n DESC, category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category precision: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []service.CategoryCount{}
	for rows.Next() {
		var c service.CategoryCount
		if err := rows.Scan(&c.Category, &c.Validated, &c.Accepted); err != nil {
			return nil, fmt.Errorf("failed to scan category precision: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
