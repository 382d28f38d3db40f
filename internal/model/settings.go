package model

// NotificationSettings holds the user's notification preferences.
// SoundEnabled and DesktopEnabled are only effective while Enabled is
// true, but they are stored independently so flipping the master switch
// off does not lose the sub-preferences.
type NotificationSettings struct {
	// Enabled is the master switch for all notification side effects.
	Enabled bool `json:"enabled"`

	// SoundEnabled controls the audible cue for incoming events.
	SoundEnabled bool `json:"sound_enabled"`

	// DesktopEnabled controls system desktop notifications. It only
	// takes effect when the platform permission has been granted.
	DesktopEnabled bool `json:"desktop_enabled"`
}

// DefaultNotificationSettings returns the settings used when nothing
// has been persisted yet, or when the persisted value is unreadable.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:        true,
		SoundEnabled:   true,
		DesktopEnabled: false,
	}
}
