// Package records provides the typed read/write facades over the key-value
// store, one service per record kind. All writes are whole-array replacement;
// reads degrade to empty results when the store has nothing.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"expensewise/internal/kvstore"
)

// BackupNotifier is told after every successful mutation so a backup can be
// scheduled. Implementations must be best-effort: a failure is logged by the
// caller and never fails the write. See internal/backup.
type BackupNotifier interface {
	BackupRequested(ctx context.Context, reason string)
}

// readSlice loads and decodes a stored collection. Absent keys and malformed
// JSON both yield an empty slice, matching the sync engine's treatment.
func readSlice[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.WarnContext(ctx, "Stored collection is malformed, treating as empty", "key", key, "error", err)
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// writeSlice replaces a stored collection in full.
func writeSlice[T any](ctx context.Context, store kvstore.Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func notify(ctx context.Context, n BackupNotifier, reason string) {
	if n == nil {
		return
	}
	n.BackupRequested(ctx, reason)
}
