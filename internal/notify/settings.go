package notify

import (
	"context"

	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/store"
)

// SettingsService holds the session's notification settings in memory
// and writes changes back to local persistence. One instance is shared
// by every surface so that a change made in the settings form is
// immediately visible to the gate without re-reading storage.
type SettingsService struct {
	st       store.Store
	settings model.NotificationSettings
}

// NewSettingsService loads the persisted settings once. Storage
// failures fall back to the documented defaults for the session.
func NewSettingsService(ctx context.Context, st store.Store) *SettingsService {
	settings, err := st.GetSettings(ctx)
	if err != nil {
		settings = model.DefaultNotificationSettings()
	}
	return &SettingsService{st: st, settings: settings}
}

// Get returns the current settings.
func (s *SettingsService) Get() model.NotificationSettings {
	return s.settings
}

// Set updates the settings and persists them best effort. A failed
// write leaves the in-memory value in place so the session stays
// consistent.
func (s *SettingsService) Set(ctx context.Context, settings model.NotificationSettings) {
	s.settings = settings
	_ = s.st.SaveSettings(ctx, settings)
}
