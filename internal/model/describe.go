package model

import "fmt"

// Describe renders a human-readable one-line summary of the event,
// e.g. "moved \"Ship v2\" from open to done". The actor is not
// included; surfaces render it separately.
func (e ActivityEvent) Describe() string {
	subject := e.SubjectText
	if subject == "" {
		subject = "a task"
	} else {
		subject = fmt.Sprintf("%q", subject)
	}

	switch e.Action {
	case ActionTaskCreated:
		return "created " + subject
	case ActionTaskUpdated:
		return "updated " + subject
	case ActionTaskDeleted:
		return "deleted " + subject
	case ActionTaskCompleted:
		return "completed " + subject
	case ActionTaskReopened:
		return "reopened " + subject

	case ActionStatusChanged:
		return e.describeChange("moved", subject)
	case ActionPriorityChanged:
		return e.describeChange("reprioritized", subject)
	case ActionAssigneeChanged:
		return e.describeChange("reassigned", subject)
	case ActionDueDateChanged:
		return e.describeChange("rescheduled", subject)

	case ActionSubtaskAdded:
		return e.describeSubtask("added a subtask to", subject)
	case ActionSubtaskCompleted:
		return e.describeSubtask("completed a subtask of", subject)
	case ActionSubtaskDeleted:
		return e.describeSubtask("removed a subtask from", subject)

	case ActionNotesUpdated:
		return "updated notes on " + subject

	case ActionTemplateCreated:
		return e.describeTemplate("created template")
	case ActionTemplateUsed:
		return e.describeTemplate("used template")

	case ActionAttachmentAdded:
		return "attached a file to " + subject
	case ActionAttachmentRemoved:
		return "removed an attachment from " + subject

	case ActionTasksMerged:
		return "merged tasks into " + subject

	case ActionReminderAdded:
		return "added a reminder on " + subject
	case ActionReminderRemoved:
		return "removed a reminder from " + subject
	case ActionReminderSent:
		return "was reminded about " + subject

	default:
		return string(e.Action) + " " + subject
	}
}

// describeChange formats a from/to change event.
func (e ActivityEvent) describeChange(verb, subject string) string {
	var d ChangeDetails
	if err := e.DecodeDetails(&d); err == nil && d.From != "" && d.To != "" {
		return fmt.Sprintf("%s %s from %s to %s", verb, subject, d.From, d.To)
	}
	return verb + " " + subject
}

// describeSubtask formats a subtask event, including the subtask text
// when present.
func (e ActivityEvent) describeSubtask(verb, subject string) string {
	var d SubtaskDetails
	if err := e.DecodeDetails(&d); err == nil && d.SubtaskText != "" {
		return fmt.Sprintf("%s %s: %q", verb, subject, d.SubtaskText)
	}
	return verb + " " + subject
}

// describeTemplate formats a template event.
func (e ActivityEvent) describeTemplate(verb string) string {
	var d TemplateDetails
	if err := e.DecodeDetails(&d); err == nil && d.TemplateName != "" {
		return fmt.Sprintf("%s %q", verb, d.TemplateName)
	}
	return verb
}
