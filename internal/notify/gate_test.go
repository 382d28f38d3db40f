package notify

import (
	"testing"
	"time"

	"github.com/taskboardhq/pulse/internal/model"
)

func liveEvent(actor string) model.ActivityEvent {
	return model.ActivityEvent{
		ID:         "e1",
		Action:     model.ActionTaskCompleted,
		ActorName:  actor,
		OccurredAt: time.Now(),
	}
}

func TestDecide(t *testing.T) {
	allOn := model.NotificationSettings{
		Enabled:        true,
		SoundEnabled:   true,
		DesktopEnabled: true,
	}

	tests := []struct {
		name       string
		actor      string
		settings   model.NotificationSettings
		permission Permission
		want       Decision
	}{
		{
			name:       "teammate event with everything on",
			actor:      "sam",
			settings:   allOn,
			permission: PermissionGranted,
			want:       Decision{PlaySound: true, RaiseDesktop: true},
		},
		{
			name:       "own action is never notified",
			actor:      "dana",
			settings:   allOn,
			permission: PermissionGranted,
			want:       Decision{},
		},
		{
			name:  "master switch overrides sub-preferences",
			actor: "sam",
			settings: model.NotificationSettings{
				Enabled:        false,
				SoundEnabled:   true,
				DesktopEnabled: true,
			},
			permission: PermissionGranted,
			want:       Decision{},
		},
		{
			name:       "desktop preference without permission",
			actor:      "sam",
			settings:   allOn,
			permission: PermissionDefault,
			want:       Decision{PlaySound: true},
		},
		{
			name:       "denied permission suppresses desktop only",
			actor:      "sam",
			settings:   allOn,
			permission: PermissionDenied,
			want:       Decision{PlaySound: true},
		},
		{
			name:  "sound off desktop on",
			actor: "sam",
			settings: model.NotificationSettings{
				Enabled:        true,
				SoundEnabled:   false,
				DesktopEnabled: true,
			},
			permission: PermissionGranted,
			want:       Decision{RaiseDesktop: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(liveEvent(tt.actor), "dana", tt.settings, tt.permission)
			if got != tt.want {
				t.Fatalf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplySkipsNilEffects(t *testing.T) {
	// Must not panic with neither effect wired.
	Apply(Decision{PlaySound: true, RaiseDesktop: true}, liveEvent("sam"), nil, nil)
}

type recordingNotifier struct {
	title string
	body  string
	calls int
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.title = title
	n.body = body
	n.calls++
	return nil
}

func TestApplyDesktopUsesSubjectText(t *testing.T) {
	e := liveEvent("sam")
	e.SubjectText = "Ship the Q3 report"

	n := &recordingNotifier{}
	Apply(Decision{RaiseDesktop: true}, e, nil, n)

	if n.calls != 1 {
		t.Fatalf("Notify called %d times, want 1", n.calls)
	}
	if n.title != "sam" || n.body != "Ship the Q3 report" {
		t.Fatalf("Notify(%q, %q), want actor and subject text", n.title, n.body)
	}
}

func TestApplyDesktopFallsBackToAction(t *testing.T) {
	n := &recordingNotifier{}
	Apply(Decision{RaiseDesktop: true}, liveEvent("sam"), nil, n)

	if n.body != string(model.ActionTaskCompleted) {
		t.Fatalf("Notify body = %q, want action name fallback", n.body)
	}
}
