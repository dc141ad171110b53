package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
)

// Syncer reconciles every persisted collection against the current schemas.
// It runs once per bootstrap, before any accessor reads data, and is
// idempotent: running it on its own output changes nothing.
type Syncer struct {
	store      kvstore.Store
	appVersion string
}

func NewSyncer(store kvstore.Store, appVersion string) *Syncer {
	return &Syncer{store: store, appVersion: appVersion}
}

// Run syncs all four record kinds. Malformed stored JSON is treated as
// absent, never as a fatal error.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.syncCategories(ctx); err != nil {
		return fmt.Errorf("sync categories: %w", err)
	}
	if err := s.syncArray(ctx, KeyExpenses, Expense); err != nil {
		return fmt.Errorf("sync expenses: %w", err)
	}
	if err := s.syncArray(ctx, KeyBudget, Budget); err != nil {
		return fmt.Errorf("sync budget: %w", err)
	}
	if err := s.syncSettings(ctx); err != nil {
		return fmt.Errorf("sync settings: %w", err)
	}
	return nil
}

// syncArray applies the generic reconciliation to one stored array and
// writes the result back in full.
func (s *Syncer) syncArray(ctx context.Context, key string, sc Schema) error {
	records, err := s.loadArray(ctx, key)
	if err != nil {
		return err
	}
	return s.writeArray(ctx, key, ReconcileAll(records, sc))
}

// syncCategories drops stale built-ins (user_id == "0") from the stored
// array, appends the current hardcoded list, then reconciles. User-created
// categories come first, unmodified, preserving their stored order.
func (s *Syncer) syncCategories(ctx context.Context) error {
	stored, err := s.loadArray(ctx, KeyCategories)
	if err != nil {
		return err
	}

	kept := stored[:0]
	for _, r := range stored {
		if userID, _ := r["user_id"].(string); userID == core.BuiltinUserID {
			continue
		}
		kept = append(kept, r)
	}

	for _, c := range core.BuiltinCategories() {
		rec, err := toRecord(c)
		if err != nil {
			return fmt.Errorf("encode builtin category %s: %w", c.CategoryID, err)
		}
		kept = append(kept, rec)
	}

	return s.writeArray(ctx, KeyCategories, ReconcileAll(kept, Category))
}

// syncSettings reconciles the single settings object and then stamps the
// running application version. app_version is overwritten, not defaulted.
func (s *Syncer) syncSettings(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, KeySettings)
	if err != nil {
		return err
	}

	record := map[string]any{}
	if ok {
		if err := json.Unmarshal(raw, &record); err != nil {
			record = map[string]any{}
		}
	}

	out := Reconcile(record, Settings)
	out["app_version"] = s.appVersion

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.store.Set(ctx, KeySettings, data)
}

func (s *Syncer) loadArray(ctx context.Context, key string) ([]map[string]any, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []map[string]any{}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return []map[string]any{}, nil
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}

func (s *Syncer) writeArray(ctx context.Context, key string, records []map[string]any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, data)
}

// toRecord converts a typed record into the schemaless shape the sync layer
// works on, via its JSON representation.
func toRecord(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}
