// Package settingsform edits the notification settings with a huh form.
package settingsform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/notify"
	"github.com/taskboardhq/pulse/internal/theme"
)

// SavedMsg signals the form was submitted with the contained settings.
type SavedMsg struct {
	Settings model.NotificationSettings
}

// CancelledMsg signals the form was dismissed without saving.
type CancelledMsg struct{}

// Model is the notification settings editor.
type Model struct {
	form       *huh.Form
	permission notify.PermissionSource

	enabled bool
	sound   bool
	desktop bool

	width  int
	height int
}

// New creates a settings form pre-filled with the current settings.
// The permission source is displayed as informational state; the form
// never requests permission on the user's behalf.
func New(
	current model.NotificationSettings,
	permission notify.PermissionSource,
	width, height int,
) Model {
	m := Model{
		permission: permission,
		enabled:    current.Enabled,
		sound:      current.SoundEnabled,
		desktop:    current.DesktopEnabled,
		width:      width,
		height:     height,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs the huh form over the three toggles. Sound and
// desktop stay editable even while the master switch is off so the
// sub-preferences survive toggling it back on.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Notifications").
				Description("Master switch for all notification effects.").
				Affirmative("On").
				Negative("Off").
				Value(&m.enabled),
			huh.NewConfirm().
				Key("sound").
				Title("Sound").
				Description("Audible cue when someone else changes a task.").
				Affirmative("On").
				Negative("Off").
				Value(&m.sound),
			huh.NewConfirm().
				Key("desktop").
				Title("Desktop notifications").
				Description("Requires system notification permission.").
				Affirmative("On").
				Negative("Off").
				Value(&m.desktop),
		),
	)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		settings := model.NotificationSettings{
			Enabled:        m.enabled,
			SoundEnabled:   m.sound,
			DesktopEnabled: m.desktop,
		}
		return m, func() tea.Msg { return SavedMsg{Settings: settings} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View renders the form plus the permission status line.
func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.form.View(),
		"",
		m.permissionLine(),
	)
}

// permissionLine explains the desktop permission state. Denied is a
// legitimate terminal state, shown as information rather than an error.
func (m Model) permissionLine() string {
	switch m.permission.Permission() {
	case notify.PermissionGranted:
		return theme.HelpStyle.Render("Desktop permission: granted.")
	case notify.PermissionDenied:
		return theme.HelpStyle.Render(
			"Desktop permission: denied. Desktop notifications stay off " +
				"until it is granted in your system settings.")
	default:
		return theme.HelpStyle.Render(
			"Desktop permission: not requested yet. Your system may " +
				"prompt when the first notification is about to show.")
	}
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(width).WithHeight(height - 2)
}
