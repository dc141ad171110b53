package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
	"expensewise/internal/schema"
)

// SettingsService is the accessor for the single settings object.
type SettingsService struct {
	store kvstore.Store
}

func NewSettingsService(store kvstore.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the settings object; a zero value when storage has none.
func (s *SettingsService) Get(ctx context.Context) (core.Settings, error) {
	raw, ok, err := s.store.Get(ctx, schema.KeySettings)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if !ok {
		return core.Settings{}, nil
	}
	var settings core.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		slog.WarnContext(ctx, "Stored settings are malformed, treating as empty", "error", err)
		return core.Settings{}, nil
	}
	return settings, nil
}

// Save replaces the settings object in full.
func (s *SettingsService) Save(ctx context.Context, settings core.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, schema.KeySettings, data); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// SettingsPatch carries the updatable settings fields; nil means unchanged.
type SettingsPatch struct {
	ThemeMode        *string
	Currency         *string
	Notifications    *bool
	BackupFrequency  *string
	IsBackup         *bool
	LastBackup       *string
	EmeraldThreshold *float64
	RoseThreshold    *float64
	AutoThresholds   *bool
}

// Patch merges the non-nil fields onto the stored object and saves it.
func (s *SettingsService) Patch(ctx context.Context, patch SettingsPatch) (core.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return core.Settings{}, err
	}

	if patch.ThemeMode != nil {
		settings.ThemeMode = *patch.ThemeMode
	}
	if patch.Currency != nil {
		settings.Currency = *patch.Currency
	}
	if patch.Notifications != nil {
		settings.Notifications = *patch.Notifications
	}
	if patch.BackupFrequency != nil {
		settings.BackupFrequency = *patch.BackupFrequency
	}
	if patch.IsBackup != nil {
		settings.IsBackup = *patch.IsBackup
	}
	if patch.LastBackup != nil {
		settings.LastBackup = *patch.LastBackup
	}
	if patch.EmeraldThreshold != nil {
		settings.EmeraldThreshold = *patch.EmeraldThreshold
	}
	if patch.RoseThreshold != nil {
		settings.RoseThreshold = *patch.RoseThreshold
	}
	if patch.AutoThresholds != nil {
		settings.AutoThresholds = *patch.AutoThresholds
	}

	if err := s.Save(ctx, settings); err != nil {
		return core.Settings{}, err
	}
	return settings, nil
}
