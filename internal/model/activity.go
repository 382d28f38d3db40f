package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Action identifies the kind of change an activity event describes.
type Action string

const (
	ActionTaskCreated       Action = "task_created"
	ActionTaskUpdated       Action = "task_updated"
	ActionTaskDeleted       Action = "task_deleted"
	ActionTaskCompleted     Action = "task_completed"
	ActionTaskReopened      Action = "task_reopened"
	ActionStatusChanged     Action = "status_changed"
	ActionPriorityChanged   Action = "priority_changed"
	ActionAssigneeChanged   Action = "assignee_changed"
	ActionDueDateChanged    Action = "due_date_changed"
	ActionSubtaskAdded      Action = "subtask_added"
	ActionSubtaskCompleted  Action = "subtask_completed"
	ActionSubtaskDeleted    Action = "subtask_deleted"
	ActionNotesUpdated      Action = "notes_updated"
	ActionTemplateCreated   Action = "template_created"
	ActionTemplateUsed      Action = "template_used"
	ActionAttachmentAdded   Action = "attachment_added"
	ActionAttachmentRemoved Action = "attachment_removed"
	ActionTasksMerged       Action = "tasks_merged"
	ActionReminderAdded     Action = "reminder_added"
	ActionReminderRemoved   Action = "reminder_removed"
	ActionReminderSent      Action = "reminder_sent"
)

// knownActions is the closed set of actions the client understands.
var knownActions = map[Action]bool{
	ActionTaskCreated:       true,
	ActionTaskUpdated:       true,
	ActionTaskDeleted:       true,
	ActionTaskCompleted:     true,
	ActionTaskReopened:      true,
	ActionStatusChanged:     true,
	ActionPriorityChanged:   true,
	ActionAssigneeChanged:   true,
	ActionDueDateChanged:    true,
	ActionSubtaskAdded:      true,
	ActionSubtaskCompleted:  true,
	ActionSubtaskDeleted:    true,
	ActionNotesUpdated:      true,
	ActionTemplateCreated:   true,
	ActionTemplateUsed:      true,
	ActionAttachmentAdded:   true,
	ActionAttachmentRemoved: true,
	ActionTasksMerged:       true,
	ActionReminderAdded:     true,
	ActionReminderRemoved:   true,
	ActionReminderSent:      true,
}

// Valid reports whether a is one of the known action variants.
func (a Action) Valid() bool {
	return knownActions[a]
}

// ActivityEvent is a single entry in the shared activity stream.
// Events are created once by the backend and never mutated; the same
// logical event carries the same ID whether it arrives via the
// historical query or the live channel.
type ActivityEvent struct {
	// ID is the globally unique, immutable event identifier.
	ID string `json:"id"`

	// Action describes what happened.
	Action Action `json:"action"`

	// ActorName is the display identity of the user who caused the event.
	ActorName string `json:"actor_name"`

	// SubjectTaskID identifies the task the event refers to, if any.
	SubjectTaskID string `json:"subject_task_id,omitempty"`

	// SubjectText is a snapshot of the subject at event time (e.g. the
	// task title). Stored rather than looked up live because the subject
	// may later be deleted or renamed.
	SubjectText string `json:"subject_text,omitempty"`

	// OccurredAt is assigned by the backend, not the client clock.
	OccurredAt time.Time `json:"occurred_at"`

	// Details holds the action-specific payload; its shape depends on
	// Action. Decode with one of the typed detail structs below.
	Details json.RawMessage `json:"details,omitempty"`
}

// Validation errors for incoming activity records.
var (
	ErrMissingID     = errors.New("activity event missing id")
	ErrMissingActor  = errors.New("activity event missing actor name")
	ErrMissingTime   = errors.New("activity event missing occurred_at")
	ErrUnknownAction = errors.New("activity event has unknown action")
)

// Validate checks that the required fields of an incoming event are
// present. Events failing validation are dropped at ingestion.
func (e ActivityEvent) Validate() error {
	if e.ID == "" {
		return ErrMissingID
	}
	if !e.Action.Valid() {
		return ErrUnknownAction
	}
	if e.ActorName == "" {
		return ErrMissingActor
	}
	if e.OccurredAt.IsZero() {
		return ErrMissingTime
	}
	return nil
}

// ChangeDetails is the payload for status, priority, assignee, and
// due-date change events.
type ChangeDetails struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SubtaskDetails is the payload for subtask events.
type SubtaskDetails struct {
	SubtaskText string `json:"subtask_text"`
}

// TemplateDetails is the payload for template events.
type TemplateDetails struct {
	TemplateName string `json:"template_name"`
}

// AttachmentDetails is the payload for attachment events.
type AttachmentDetails struct {
	FileName string `json:"file_name"`
}

// MergeDetails is the payload for task merge events.
type MergeDetails struct {
	MergedTaskIDs []string `json:"merged_task_ids"`
}

// ReminderDetails is the payload for reminder events.
type ReminderDetails struct {
	RemindAt time.Time `json:"remind_at"`
}

// DecodeDetails unmarshals the event's detail payload into out.
// Returns nil without touching out when the event has no payload.
func (e ActivityEvent) DecodeDetails(out any) error {
	if len(e.Details) == 0 {
		return nil
	}
	return json.Unmarshal(e.Details, out)
}
