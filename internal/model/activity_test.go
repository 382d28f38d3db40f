package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validEvent() ActivityEvent {
	return ActivityEvent{
		ID:         "e1",
		Action:     ActionTaskCreated,
		ActorName:  "sam",
		OccurredAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ActivityEvent)
		want   error
	}{
		{"valid", func(*ActivityEvent) {}, nil},
		{"missing id", func(e *ActivityEvent) { e.ID = "" }, ErrMissingID},
		{"unknown action", func(e *ActivityEvent) { e.Action = "task_teleported" }, ErrUnknownAction},
		{"empty action", func(e *ActivityEvent) { e.Action = "" }, ErrUnknownAction},
		{"missing actor", func(e *ActivityEvent) { e.ActorName = "" }, ErrMissingActor},
		{"missing time", func(e *ActivityEvent) { e.OccurredAt = time.Time{} }, ErrMissingTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			if got := e.Validate(); !errors.Is(got, tt.want) {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		subject string
		details string
		want    string
	}{
		{
			name:    "completion with subject",
			action:  ActionTaskCompleted,
			subject: "Ship v2",
			want:    `completed "Ship v2"`,
		},
		{
			name:   "completion without subject",
			action: ActionTaskCompleted,
			want:   "completed a task",
		},
		{
			name:    "status change with details",
			action:  ActionStatusChanged,
			subject: "Ship v2",
			details: `{"from": "open", "to": "done"}`,
			want:    `moved "Ship v2" from open to done`,
		},
		{
			name:    "status change without details",
			action:  ActionStatusChanged,
			subject: "Ship v2",
			want:    `moved "Ship v2"`,
		},
		{
			name:    "subtask with text",
			action:  ActionSubtaskAdded,
			subject: "Ship v2",
			details: `{"subtask_text": "write changelog"}`,
			want:    `added a subtask to "Ship v2": "write changelog"`,
		},
		{
			name:    "template used",
			action:  ActionTemplateUsed,
			details: `{"template_name": "Sprint retro"}`,
			want:    `used template "Sprint retro"`,
		},
		{
			name:    "merge",
			action:  ActionTasksMerged,
			subject: "Ship v2",
			want:    `merged tasks into "Ship v2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			e.Action = tt.action
			e.SubjectText = tt.subject
			if tt.details != "" {
				e.Details = json.RawMessage(tt.details)
			}
			if got := e.Describe(); got != tt.want {
				t.Fatalf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeDetailsEmptyPayloadIsNil(t *testing.T) {
	e := validEvent()

	var d ChangeDetails
	if err := e.DecodeDetails(&d); err != nil {
		t.Fatalf("DecodeDetails: %v", err)
	}
	if d != (ChangeDetails{}) {
		t.Fatalf("DecodeDetails touched out for an empty payload: %+v", d)
	}
}

func TestEventJSONWireShape(t *testing.T) {
	raw := `{
		"id": "e1",
		"action": "priority_changed",
		"actor_name": "sam",
		"subject_task_id": "task-42",
		"subject_text": "Ship v2",
		"occurred_at": "2026-03-14T09:00:00Z",
		"details": {"from": "low", "to": "high"}
	}`

	var e ActivityEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if e.Action != ActionPriorityChanged || e.SubjectTaskID != "task-42" {
		t.Fatalf("decoded event mangled: %+v", e)
	}

	var d ChangeDetails
	if err := e.DecodeDetails(&d); err != nil {
		t.Fatalf("DecodeDetails: %v", err)
	}
	if d.From != "low" || d.To != "high" {
		t.Fatalf("details = %+v", d)
	}
}
