// Package notify decides and executes notification side effects for
// live-delivered activity events.
package notify

import "github.com/taskboardhq/pulse/internal/model"

// Permission mirrors the platform's tri-state desktop notification
// permission. The gate only reads it; requesting permission is an
// explicit user action handled by the settings surface.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Decision is the outcome of gating one live event.
type Decision struct {
	PlaySound    bool
	RaiseDesktop bool
}

// Decide applies the notification rules, in order:
//
//  1. the master switch off suppresses everything;
//  2. a user is never notified of their own actions;
//  3. sound follows the sound preference;
//  4. desktop notifications additionally require granted permission.
//
// Decide is pure and must be invoked only for events arriving via the
// live channel. Replaying it over a historical backfill would fire
// side effects for dozens of past events at startup.
func Decide(
	e model.ActivityEvent,
	identity string,
	settings model.NotificationSettings,
	permission Permission,
) Decision {
	if !settings.Enabled {
		return Decision{}
	}
	if e.ActorName == identity {
		return Decision{}
	}

	return Decision{
		PlaySound:    settings.SoundEnabled,
		RaiseDesktop: settings.DesktopEnabled && permission == PermissionGranted,
	}
}
