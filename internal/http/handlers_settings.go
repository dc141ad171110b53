package http

import (
	"net/http"

	"expensewise/internal/records"
)

type patchSettingsRequest struct {
	ThemeMode        *string  `json:"theme_mode" validate:"omitempty,oneof=light dark system"`
	Currency         *string  `json:"currency" validate:"omitempty,len=3"`
	Notifications    *bool    `json:"notifications"`
	BackupFrequency  *string  `json:"backup_frequency" validate:"omitempty,oneof=daily weekly monthly"`
	IsBackup         *bool    `json:"is_backup"`
	EmeraldThreshold *float64 `json:"emerald_threshold" validate:"omitempty,gt=0"`
	RoseThreshold    *float64 `json:"rose_threshold" validate:"omitempty,gt=0"`
	AutoThresholds   *bool    `json:"auto_thresholds"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req patchSettingsRequest
	if !s.decode(w, r, &req) {
		return
	}

	// last_backup is stamped by the backup worker, never by clients.
	settings, err := s.settings.Patch(r.Context(), records.SettingsPatch{
		ThemeMode:        req.ThemeMode,
		Currency:         req.Currency,
		Notifications:    req.Notifications,
		BackupFrequency:  req.BackupFrequency,
		IsBackup:         req.IsBackup,
		EmeraldThreshold: req.EmeraldThreshold,
		RoseThreshold:    req.RoseThreshold,
		AutoThresholds:   req.AutoThresholds,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusOK, settings)
}
