package schema

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
)

const testVersion = "2.3.0"

func newSyncer() (*Syncer, *kvstore.Memory) {
	store := kvstore.NewMemory()
	return NewSyncer(store, testVersion), store
}

func seed(t *testing.T, store kvstore.Store, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal seed for %s: %v", key, err)
	}
	if err := store.Set(context.Background(), key, data); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func loadRecords(t *testing.T, store kvstore.Store, key string) []map[string]any {
	t.Helper()
	raw, ok, err := store.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("load %s: ok=%v err=%v", key, ok, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
	return records
}

func recordKeys(r map[string]any) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestSyncEmptyStorageWritesEmptyArrays(t *testing.T) {
	s, store := newSyncer()
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, key := range []string{KeyExpenses, KeyBudget} {
		if got := loadRecords(t, store, key); len(got) != 0 {
			t.Errorf("%s: expected empty array, got %d records", key, len(got))
		}
	}

	// Categories get the built-in seed even from empty storage.
	cats := loadRecords(t, store, KeyCategories)
	if len(cats) != len(core.BuiltinCategories()) {
		t.Fatalf("expected %d builtin categories, got %d", len(core.BuiltinCategories()), len(cats))
	}
}

func TestSyncFieldCompleteness(t *testing.T) {
	s, store := newSyncer()

	seed(t, store, KeyExpenses, []map[string]any{
		{"expense_id": "e1", "amount": 12.5, "obsolete_field": "drop me"},
		{},
		{"note": "", "legacy_tag": 7},
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := Expense.Keys()
	sort.Strings(want)
	for i, r := range loadRecords(t, store, KeyExpenses) {
		if got := recordKeys(r); !reflect.DeepEqual(got, want) {
			t.Errorf("record %d: key set %v, want %v", i, got, want)
		}
	}
}

func TestSyncPreservesPresentFalsyValues(t *testing.T) {
	s, store := newSyncer()

	// payment_mode present but empty must survive as "", not become the default.
	seed(t, store, KeyExpenses, []map[string]any{
		{"expense_id": "e1", "payment_mode": "", "amount": float64(0)},
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	r := loadRecords(t, store, KeyExpenses)[0]
	if r["payment_mode"] != "" {
		t.Errorf("present empty field replaced by default: %v", r["payment_mode"])
	}
	if r["amount"] != float64(0) {
		t.Errorf("present zero amount replaced: %v", r["amount"])
	}
}

func TestSyncIdempotent(t *testing.T) {
	s, store := newSyncer()

	seed(t, store, KeyCategories, []map[string]any{
		{"category_id": "c-custom", "name": "Pets", "user_id": "device-1"},
		{"category_id": "1", "name": "Edited Builtin", "user_id": "0"},
	})
	seed(t, store, KeyExpenses, []map[string]any{
		{"expense_id": "e1", "amount": 3.5, "stale": true},
	})
	seed(t, store, KeyBudget, []map[string]any{
		{"budget_id": "b1", "amount": 100.0},
	})
	seed(t, store, KeySettings, map[string]any{"theme_mode": "dark", "removed": 1})

	ctx := context.Background()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	snapshot := map[string][]byte{}
	for _, key := range []string{KeyCategories, KeyExpenses, KeyBudget, KeySettings} {
		raw, _, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		snapshot[key] = raw
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, key := range []string{KeyCategories, KeyExpenses, KeyBudget, KeySettings} {
		raw, _, _ := store.Get(ctx, key)
		var a, b any
		if err := json.Unmarshal(snapshot[key], &a); err != nil {
			t.Fatalf("decode snapshot %s: %v", key, err)
		}
		if err := json.Unmarshal(raw, &b); err != nil {
			t.Fatalf("decode second pass %s: %v", key, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: second sync is not a fixed point", key)
		}
	}
}

func TestSyncBuiltinCategoryDurability(t *testing.T) {
	s, store := newSyncer()

	// Stale built-ins: edited name, missing entries, wrong colors.
	seed(t, store, KeyCategories, []map[string]any{
		{"category_id": "1", "name": "Hacked", "color": "#000000", "user_id": "0"},
		{"category_id": "99", "name": "Ghost Builtin", "user_id": "0"},
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := loadRecords(t, store, KeyCategories)
	builtins := core.BuiltinCategories()
	if len(got) != len(builtins) {
		t.Fatalf("expected exactly %d categories, got %d", len(builtins), len(got))
	}
	for i, want := range builtins {
		r := got[i]
		if r["category_id"] != want.CategoryID || r["name"] != want.Name || r["color"] != want.Color {
			t.Errorf("builtin %d: got %v/%v/%v, want %v/%v/%v",
				i, r["category_id"], r["name"], r["color"], want.CategoryID, want.Name, want.Color)
		}
	}
}

func TestSyncPreservesCustomCategories(t *testing.T) {
	s, store := newSyncer()

	seed(t, store, KeyCategories, []map[string]any{
		{"category_id": "c-pets", "name": "Pets", "icon": "pets", "color": "#123456", "is_active": "1", "user_id": "device-1"},
		{"category_id": "2", "name": "Stale", "user_id": "0"},
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := loadRecords(t, store, KeyCategories)
	first := got[0]
	if first["category_id"] != "c-pets" || first["name"] != "Pets" || first["color"] != "#123456" {
		t.Errorf("custom category modified by sync: %v", first)
	}
	if first["user_id"] != "device-1" {
		t.Errorf("custom category owner changed: %v", first["user_id"])
	}
}

func TestSyncSettingsStampsAppVersion(t *testing.T) {
	s, store := newSyncer()

	seed(t, store, KeySettings, map[string]any{
		"theme_mode":  "dark",
		"app_version": "0.0.1", // present, but must still be overwritten
		"dropped":     true,
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, _, _ := store.Get(context.Background(), KeySettings)
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings["app_version"] != testVersion {
		t.Errorf("app_version = %v, want %v", settings["app_version"], testVersion)
	}
	if settings["theme_mode"] != "dark" {
		t.Errorf("theme_mode lost: %v", settings["theme_mode"])
	}
	if _, ok := settings["dropped"]; ok {
		t.Errorf("obsolete settings field survived sync")
	}
	want := Settings.Keys()
	sort.Strings(want)
	if got := recordKeys(settings); !reflect.DeepEqual(got, want) {
		t.Errorf("settings key set %v, want %v", got, want)
	}
}

func TestSyncMalformedStoredJSON(t *testing.T) {
	s, store := newSyncer()
	ctx := context.Background()

	if err := store.Set(ctx, KeyExpenses, []byte(`{"not":"an array"`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Set(ctx, KeySettings, []byte(`[]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run on malformed data: %v", err)
	}
	if got := loadRecords(t, store, KeyExpenses); len(got) != 0 {
		t.Errorf("malformed expenses not reset to empty array")
	}
}

func TestSyncUnavailableStoreIsNoop(t *testing.T) {
	s := NewSyncer(kvstore.Unavailable{}, testVersion)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("sync must not fail without a persistence medium: %v", err)
	}
}
