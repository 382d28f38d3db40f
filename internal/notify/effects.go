package notify

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/taskboardhq/pulse/internal/model"
)

// Sounder plays the audible cue for an incoming event.
type Sounder interface {
	Play()
}

// DesktopNotifier raises a system notification for an incoming event.
type DesktopNotifier interface {
	Notify(title, body string) error
}

// PermissionSource reports the platform's desktop notification
// permission state.
type PermissionSource interface {
	Permission() Permission
	// Request asks the platform for permission. Only the settings
	// surface calls this, never the gate.
	Request() Permission
}

// TerminalBell is the default Sounder: it writes the terminal bell
// character directly to the tty.
type TerminalBell struct{}

// Play rings the terminal bell.
func (TerminalBell) Play() {
	fmt.Fprint(os.Stderr, "\a")
}

// Apply executes a decision for one event using the given effect
// implementations. Either may be nil, in which case that effect is
// skipped. Desktop notification failures are swallowed: a broken
// notifier degrades to silence, not an error.
func Apply(d Decision, e model.ActivityEvent, sounder Sounder, desktop DesktopNotifier) {
	if d.PlaySound && sounder != nil {
		sounder.Play()
	}
	if d.RaiseDesktop && desktop != nil {
		title := e.ActorName
		body := e.SubjectText
		if body == "" {
			body = string(e.Action)
		}
		_ = desktop.Notify(title, body)
	}
}

// CommandNotifier shells out to a desktop notification command such as
// notify-send. Absence of the command is detected once at construction
// so the gate can report permission as denied instead of failing every
// event.
type CommandNotifier struct {
	path string
}

// NewCommandNotifier looks up the given command on PATH. It returns
// nil when the command is missing; callers treat a nil notifier as
// no desktop support.
func NewCommandNotifier(command string) *CommandNotifier {
	path, err := exec.LookPath(command)
	if err != nil {
		return nil
	}
	return &CommandNotifier{path: path}
}

// Notify raises a desktop notification.
func (n *CommandNotifier) Notify(title, body string) error {
	return exec.Command(n.path, title, body).Run()
}

// StaticPermission is a PermissionSource with a fixed state, used on
// platforms without a queryable notification permission and in tests.
type StaticPermission struct {
	State Permission
}

// Permission returns the fixed state.
func (p StaticPermission) Permission() Permission {
	return p.State
}

// Request returns the fixed state without prompting.
func (p StaticPermission) Request() Permission {
	return p.State
}
