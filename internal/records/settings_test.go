package records

import (
	"context"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
)

func TestSettingsPatchMergesOntoStored(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(kvstore.NewMemory())

	if err := svc.Save(ctx, core.Settings{
		ID: "1", ThemeMode: "light", Currency: "USD", Notifications: true, AppVersion: "1.0.0",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	theme := "dark"
	emerald := 250.0
	got, err := svc.Patch(ctx, SettingsPatch{ThemeMode: &theme, EmeraldThreshold: &emerald})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.ThemeMode != "dark" || got.EmeraldThreshold != 250 {
		t.Fatalf("patched fields wrong: %+v", got)
	}
	if got.Currency != "USD" || !got.Notifications || got.AppVersion != "1.0.0" {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	reread, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reread != got {
		t.Fatalf("persisted settings differ from returned value")
	}
}

func TestSettingsUnavailableStore(t *testing.T) {
	svc := NewSettingsService(kvstore.Unavailable{})
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get on unavailable store: %v", err)
	}
	if got != (core.Settings{}) {
		t.Fatalf("expected zero settings, got %+v", got)
	}
}
