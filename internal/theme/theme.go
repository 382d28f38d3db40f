package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/taskboardhq/pulse/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// BadgeStyle renders the bell badge unread counter.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// BadgeQuietStyle renders the bell when nothing is unread.
var BadgeQuietStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// PanelStyle wraps the dropdown notification panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// UnreadStyle marks events newer than the watermark.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// ReadStyle dims events the user has already seen.
var ReadStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders fetch failures and other problem banners.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ActionStyle returns a color-coded style for the given activity action.
func ActionStyle(action model.Action) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch action {
	case model.ActionTaskCreated, model.ActionTaskReopened:
		return base.Foreground(ColorGreen)
	case model.ActionTaskCompleted, model.ActionSubtaskCompleted:
		return base.Foreground(ColorBlue)
	case model.ActionTaskDeleted, model.ActionSubtaskDeleted,
		model.ActionAttachmentRemoved, model.ActionReminderRemoved:
		return base.Foreground(ColorRed)
	case model.ActionStatusChanged, model.ActionPriorityChanged,
		model.ActionAssigneeChanged, model.ActionDueDateChanged:
		return base.Foreground(ColorYellow)
	case model.ActionTemplateCreated, model.ActionTemplateUsed:
		return base.Foreground(ColorMagenta)
	case model.ActionTasksMerged:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// ActionGlyph returns a single-character marker for the given action.
func ActionGlyph(action model.Action) string {
	switch action {
	case model.ActionTaskCreated:
		return "+"
	case model.ActionTaskDeleted, model.ActionSubtaskDeleted:
		return "x"
	case model.ActionTaskCompleted, model.ActionSubtaskCompleted:
		return "✓"
	case model.ActionTaskReopened:
		return "↺"
	case model.ActionStatusChanged, model.ActionPriorityChanged,
		model.ActionAssigneeChanged, model.ActionDueDateChanged:
		return "~"
	case model.ActionAttachmentAdded, model.ActionAttachmentRemoved:
		return "📎"
	case model.ActionReminderAdded, model.ActionReminderRemoved,
		model.ActionReminderSent:
		return "⏰"
	case model.ActionTasksMerged:
		return "⇄"
	default:
		return "•"
	}
}
