// Package testutil provides shared test fixtures: migrated in-memory stores
// and a fluent builder for suggestion history.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/storage"
)

// TestDB is a migrated in-memory store scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup func(context.Context, *storage.SQLiteStorage) error
	History     []*SuggestionBuilder
}

// SetupTestDB creates a migrated in-memory database closed at test cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database and seeds it.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		History: []*testutil.SuggestionBuilder{
//			testutil.NewSuggestion("Corner Bakery").Suggested("Other", model.SourceGPT).Feedback("Food"),
//		},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	db.Seed(opts.History...)

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// Seed stores each built record in order and returns them with IDs assigned.
func (db *TestDB) Seed(history ...*SuggestionBuilder) []*model.SuggestionRecord {
	db.t.Helper()

	records := make([]*model.SuggestionRecord, 0, len(history))
	for _, b := range history {
		record := b.Build()
		if err := db.Storage.CreateSuggestion(context.Background(), record); err != nil {
			db.t.Fatalf("failed to seed suggestion %q: %v", record.InputText, err)
		}
		records = append(records, record)
	}
	return records
}
