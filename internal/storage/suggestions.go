package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/model"
)

const suggestionColumns = `id, user_id, input_text, normalized_input, suggested_category,
	final_category, source, confidence, validated, overridden, created_at`

// CreateSuggestion inserts a new suggestion record.
func (s *sqlStore) CreateSuggestion(ctx context.Context, record *model.SuggestionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSuggestion(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.CreatedAt = record.CreatedAt.UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO ai_suggestions (
			user_id, input_text, normalized_input, suggested_category,
			final_category, source, confidence, validated, overridden, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		record.UserID,
		record.InputText,
		record.NormalizedKey,
		record.SuggestedCategory,
		nullString(record.FinalCategory),
		string(record.Source),
		record.Confidence,
		record.Validated,
		record.Overridden,
		record.CreatedAt.Format(timeLayout),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	record.ID = id
	return nil
}

// GetSuggestion retrieves a suggestion by ID.
func (s *sqlStore) GetSuggestion(ctx context.Context, id int64) (*model.SuggestionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+suggestionColumns+`
		FROM ai_suggestions
		WHERE id = ?
	`), id)

	record, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("suggestion %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return record, nil
}

// UpdateSuggestion stores the feedback fields and owner of an existing suggestion.
func (s *sqlStore) UpdateSuggestion(ctx context.Context, record *model.SuggestionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSuggestion(record); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE ai_suggestions
		SET user_id = ?, final_category = ?, validated = ?, overridden = ?
		WHERE id = ?
	`),
		record.UserID,
		nullString(record.FinalCategory),
		record.Validated,
		record.Overridden,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update suggestion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("suggestion %d: %w", record.ID, common.ErrNotFound)
	}
	return nil
}

// LatestValidatedForUser finds the newest validated suggestion of a user for a key.
// An empty key is a valid key.
func (s *sqlStore) LatestValidatedForUser(ctx context.Context, userID int64, key string) (*model.SuggestionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.latest(ctx, `
		SELECT `+suggestionColumns+`
		FROM ai_suggestions
		WHERE user_id = ? AND normalized_input = ? AND validated = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID, key)
}

// LatestOverriddenForKey finds the newest correction for a key from any user.
func (s *sqlStore) LatestOverriddenForKey(ctx context.Context, key string) (*model.SuggestionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.latest(ctx, `
		SELECT `+suggestionColumns+`
		FROM ai_suggestions
		WHERE normalized_input = ? AND validated = TRUE AND overridden = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, key)
}

func (s *sqlStore) latest(ctx context.Context, query string, args ...any) (*model.SuggestionRecord, error) {
	record, err := scanSuggestion(s.db.QueryRowContext(ctx, s.rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up suggestion memory: %w", err)
	}
	return record, nil
}

// ListValidatedSuggestions returns all validated suggestions, oldest first.
func (s *sqlStore) ListValidatedSuggestions(ctx context.Context) ([]model.SuggestionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+suggestionColumns+`
		FROM ai_suggestions
		WHERE validated = TRUE
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list validated suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.SuggestionRecord
	for rows.Next() {
		record, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row scanner) (*model.SuggestionRecord, error) {
	var (
		record    model.SuggestionRecord
		final     sql.NullString
		source    string
		createdAt string
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.InputText,
		&record.NormalizedKey,
		&record.SuggestedCategory,
		&final,
		&source,
		&record.Confidence,
		&record.Validated,
		&record.Overridden,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.FinalCategory = final.String
	record.Source = model.Source(source)
	if createdAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		record.CreatedAt = parsed
	}

	return &record, nil
}
