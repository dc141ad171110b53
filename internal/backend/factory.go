// Package backend selects and opens the key-value store the rest of the
// application runs on.
package backend

import (
	"fmt"
	"log/slog"

	"expensewise/internal/config"
	"expensewise/internal/kvstore"
)

// Type represents a storage backend kind.
type Type string

const (
	Memory Type = "memory"
	File   Type = "file"
	SQLite Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Open creates the store configured by cfg. The returned cleanup is never
// nil and must be called on shutdown.
func Open(cfg *config.Config, logger *slog.Logger) (kvstore.Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.Backend)
	switch t {
	case Memory:
		logger.Info("Initialized memory backend")
		return kvstore.NewMemory(), func() error { return nil }, nil

	case File:
		store, err := kvstore.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return store, func() error { return nil }, nil

	case SQLite:
		store, err := kvstore.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.Backend)
	}
}
