package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/spendora/internal/service"
)

// Config selects and locates a storage backend.
type Config struct {
	Driver string
	Path   string
	DSN    string
}

// Open creates the configured backend and migrates it.
func Open(ctx context.Context, cfg Config) (service.Storage, error) {
	var (
		store service.Storage
		err   error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		store, err = NewSQLiteStorage(cfg.Path)
	case "postgres", "postgresql":
		store, err = NewPostgresStorage(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}
