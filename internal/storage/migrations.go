package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// migration is one schema step. Statements run in a single transaction
// together with the user_version bump.
type migration struct {
	description string
	statements  []string
	version     int
}

var sqliteMigrations = []migration{
	{
		version:     1,
		description: "Initial suggestion log",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS ai_suggestions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL DEFAULT 0,
				input_text TEXT NOT NULL,
				normalized_input TEXT NOT NULL,
				suggested_category TEXT NOT NULL,
				final_category TEXT,
				source TEXT NOT NULL CHECK (source IN ('MEMORY', 'GPT', 'LLM_FALLBACK')),
				confidence REAL NOT NULL,
				validated BOOLEAN NOT NULL DEFAULT 0,
				overridden BOOLEAN NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX idx_ai_suggestions_user_key ON ai_suggestions(user_id, normalized_input, validated)`,
			`CREATE INDEX idx_ai_suggestions_key ON ai_suggestions(normalized_input, validated, overridden)`,
		},
	},
	{
		version:     2,
		description: "Index suggestions for export and KPI scans",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_ai_suggestions_validated_created ON ai_suggestions(validated, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_ai_suggestions_source ON ai_suggestions(source)`,
		},
	},
}

// Migrate applies pending migrations, tracking progress in PRAGMA user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range sqliteMigrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		slog.Info("Applied migration", "version", m.version, "description", m.description)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) apply(ctx context.Context, m migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	return tx.Commit()
}
