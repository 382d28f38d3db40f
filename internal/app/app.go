// Package app is the root Bubble Tea model: view routing, the shared
// watermark and settings services, and one stream reconciler per
// mounted surface.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskboardhq/pulse/internal/feed"
	"github.com/taskboardhq/pulse/internal/keys"
	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/notify"
	"github.com/taskboardhq/pulse/internal/remote"
	"github.com/taskboardhq/pulse/internal/store"
	"github.com/taskboardhq/pulse/internal/stream"
	"github.com/taskboardhq/pulse/internal/theme"
	"github.com/taskboardhq/pulse/internal/ui"
	"github.com/taskboardhq/pulse/internal/ui/bell"
	"github.com/taskboardhq/pulse/internal/ui/feedview"
	"github.com/taskboardhq/pulse/internal/ui/panel"
	"github.com/taskboardhq/pulse/internal/ui/settingsform"
	"github.com/taskboardhq/pulse/internal/watermark"
)

// Surface names used to route reconciler messages.
const (
	surfaceBell  = "bell"
	surfacePanel = "panel"
	surfaceFeed  = "feed"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewPanel
	ViewFeed
	ViewSettings
)

// cachedEventsMsg carries locally cached events loaded at startup so
// the badge can render before the first fetch lands.
type cachedEventsMsg struct {
	events []model.ActivityEvent
}

// Deps bundles everything the root model needs.
type Deps struct {
	Config  *model.AppConfig
	Store   store.Store
	History remote.HistoryClient
	Live    remote.LiveFeed

	Permission notify.PermissionSource
	Sounder    notify.Sounder
	Desktop    notify.DesktopNotifier
}

// Model is the root application model.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	keys        *keys.KeyMap
	cfg         *model.AppConfig
	st          store.Store

	watermark *watermark.Manager
	settings  *notify.SettingsService

	permission notify.PermissionSource
	sounder    notify.Sounder
	desktop    notify.DesktopNotifier

	bellRec  *stream.Reconciler
	panelRec *stream.Reconciler
	feedRec  *stream.Reconciler

	bellView     bell.Model
	panelView    panel.Model
	feedView     feedview.Model
	settingsView settingsform.Model

	showHelp bool
	ready    bool
}

// New creates the root model. The watermark manager and settings
// service are constructed once here and shared by reference with
// every surface, so all surfaces observe one consistent unread
// boundary and one consistent set of preferences.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()
	ctx := context.Background()

	wm := watermark.NewManager(deps.Store)
	wm.Load(ctx, deps.Config.Identity)

	settings := notify.NewSettingsService(ctx, deps.Store)

	newRec := func(surface string, cap int, notifying bool) *stream.Reconciler {
		return stream.New(
			deps.History,
			deps.Live,
			feed.NewStore(cap),
			deps.Store,
			stream.Options{
				Surface:      surface,
				Channel:      deps.Config.Server.Channel,
				Identity:     deps.Config.Identity,
				FetchTimeout: time.Duration(deps.Config.Server.FetchTimeoutSec) * time.Second,
				Notifying:    notifying,
			},
		)
	}

	m := Model{
		currentView: ViewHome,
		keys:        k,
		cfg:         deps.Config,
		st:          deps.Store,
		watermark:   wm,
		settings:    settings,
		permission:  deps.Permission,
		sounder:     deps.Sounder,
		desktop:     deps.Desktop,

		// The bell is mounted for the whole session and is the
		// notification-capable surface; panel and feed mount on open.
		bellRec:  newRec(surfaceBell, deps.Config.Feed.PanelCap, true),
		panelRec: newRec(surfacePanel, deps.Config.Feed.PanelCap, false),
		feedRec:  newRec(surfaceFeed, deps.Config.Feed.FeedCap, false),

		bellView:  bell.New(),
		panelView: panel.New(wm, k, 80, 24),
		feedView:  feedview.New(wm, k, 80, 24),
	}

	return m
}

// Init starts the bell surface's reconciler and loads the local
// activity cache for an instant badge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bellRec.Start(),
		m.loadCachedEvents(),
	)
}

// loadCachedEvents reads the local activity cache.
func (m Model) loadCachedEvents() tea.Cmd {
	st := m.st
	limit := m.cfg.Feed.PanelCap
	return func() tea.Msg {
		events, err := st.GetCachedEvents(context.Background(), limit)
		if err != nil || len(events) == 0 {
			return nil
		}
		return cachedEventsMsg{events: events}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.panelView.SetSize(contentWidth, contentHeight)
		m.feedView.SetSize(contentWidth, contentHeight)
		if m.currentView == ViewSettings {
			m.settingsView.SetSize(contentWidth, contentHeight)
		}
		return m.updateActiveView(msg)

	case cachedEventsMsg:
		// Pre-render from the cache only while the first fetch is
		// still in flight; a resolved fetch owns the store.
		if m.bellRec.State() == stream.StateFetching {
			m.bellRec.Feed().Seed(msg.events)
			m.refreshBadge()
		}
		return m, nil

	case stream.SeededMsg:
		return m.handleSeeded(msg)

	case stream.LiveEventMsg:
		return m.handleLive(msg)

	case stream.FailedMsg:
		return m.handleFailed(msg)

	case stream.ClosedMsg:
		// The transport dropped the live channel. Reconnecting is out
		// of the reconciler's hands; flag the badge so the user knows
		// the count may lag and let them retry.
		rec := m.recFor(msg.Surface)
		if rec == nil {
			return m, nil
		}
		if msg.Surface == surfaceBell {
			m.bellView.SetStale(true)
		}
		return m, rec.WaitForNextMsg()

	case panel.ClosedMsg:
		// Closing the panel is one of the two moments the watermark
		// advances.
		m.watermark.MarkAllSeenNow(context.Background())
		m.panelRec.Stop()
		m.currentView = ViewHome
		m.refreshBadge()
		return m, nil

	case panel.MarkAllReadMsg:
		m.watermark.MarkAllSeenNow(context.Background())
		m.panelView.SetEvents(m.panelRec.Feed().Snapshot())
		m.refreshBadge()
		return m, nil

	case feedview.ClosedMsg:
		m.feedRec.Stop()
		m.currentView = ViewHome
		return m, nil

	case settingsform.SavedMsg:
		m.settings.Set(context.Background(), msg.Settings)
		m.currentView = ViewHome
		return m, nil

	case settingsform.CancelledMsg:
		m.currentView = ViewHome
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleSeeded folds a historical batch into the owning surface.
func (m Model) handleSeeded(msg stream.SeededMsg) (tea.Model, tea.Cmd) {
	rec := m.recFor(msg.Surface)
	if rec == nil {
		return m, nil
	}
	wait := rec.WaitForNextMsg()

	if !rec.ApplySeeded(msg) {
		// Stale result from a surface that unmounted mid-fetch.
		return m, wait
	}

	switch msg.Surface {
	case surfaceBell:
		m.bellView.SetStale(false)
		m.refreshBadge()
	case surfacePanel:
		m.panelView.SetEvents(rec.Feed().Snapshot())
	case surfaceFeed:
		m.feedView.SetEvents(rec.Feed().Snapshot())
	}

	return m, wait
}

// handleLive folds one live event into the owning surface and, for
// the bell, executes the gated side effects.
func (m Model) handleLive(msg stream.LiveEventMsg) (tea.Model, tea.Cmd) {
	rec := m.recFor(msg.Surface)
	if rec == nil {
		return m, nil
	}
	wait := rec.WaitForNextMsg()

	decision, changed := rec.ApplyLive(
		msg,
		m.cfg.Identity,
		m.settings.Get(),
		m.permission.Permission(),
	)
	if !changed {
		return m, wait
	}

	switch msg.Surface {
	case surfaceBell:
		notify.Apply(decision, msg.Event, m.sounder, m.desktop)
		m.refreshBadge()
	case surfacePanel:
		if m.currentView == ViewPanel {
			m.panelView.SetEvents(rec.Feed().Snapshot())
		}
	case surfaceFeed:
		if m.currentView == ViewFeed {
			m.feedView.SetEvents(rec.Feed().Snapshot())
		}
	}

	return m, wait
}

// handleFailed surfaces a fetch failure on the owning view.
func (m Model) handleFailed(msg stream.FailedMsg) (tea.Model, tea.Cmd) {
	rec := m.recFor(msg.Surface)
	if rec == nil {
		return m, nil
	}
	wait := rec.WaitForNextMsg()

	switch msg.Surface {
	case surfaceBell:
		m.bellView.SetStale(true)
	case surfacePanel:
		m.panelView.SetFailed(msg.Err)
	case surfaceFeed:
		m.feedView.SetFailed(msg.Err)
	}

	return m, wait
}

// handleKeys processes global keys, then delegates to the active view.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Settings owns all input while open; huh handles esc itself.
	if m.currentView == ViewSettings {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewHome:
		return m, tea.Quit

	case key.Matches(msg, m.keys.TogglePanel):
		if m.currentView == ViewPanel {
			// Treat the toggle as a close so the watermark advances.
			return m.Update(panel.ClosedMsg{})
		}
		m.currentView = ViewPanel
		m.panelView.SetEvents(m.panelRec.Feed().Snapshot())
		return m, m.panelRec.Start()

	case key.Matches(msg, m.keys.Feed) && m.currentView == ViewHome:
		m.currentView = ViewFeed
		m.feedView.SetEvents(m.feedRec.Feed().Snapshot())
		return m, m.feedRec.Start()

	case key.Matches(msg, m.keys.Settings) && m.currentView == ViewHome:
		m.currentView = ViewSettings
		m.settingsView = settingsform.New(
			m.settings.Get(),
			m.permission,
			m.layout.ContentWidth(),
			m.layout.ContentHeight(),
		)
		return m, m.settingsView.Init()

	case key.Matches(msg, m.keys.Retry):
		return m.retryActive()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m.updateActiveView(msg)
}

// retryActive re-attempts the fetch for whichever surface is failed.
func (m Model) retryActive() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch m.currentView {
	case ViewPanel:
		if m.panelRec.State() == stream.StateFailed {
			cmds = append(cmds, m.panelRec.Retry())
		}
	case ViewFeed:
		if m.feedRec.State() == stream.StateFailed {
			cmds = append(cmds, m.feedRec.Retry())
		}
	}
	if m.bellRec.State() == stream.StateFailed ||
		m.bellRec.State() == stream.StateIdle {
		cmds = append(cmds, m.bellRec.Retry())
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// recFor returns the reconciler owning the named surface.
func (m Model) recFor(surface string) *stream.Reconciler {
	switch surface {
	case surfaceBell:
		return m.bellRec
	case surfacePanel:
		return m.panelRec
	case surfaceFeed:
		return m.feedRec
	default:
		return nil
	}
}

// updateActiveView forwards a message to the active view's Update.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewPanel:
		m.panelView, cmd = m.panelView.Update(msg)
	case ViewFeed:
		m.feedView, cmd = m.feedView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// refreshBadge recomputes the unread count from the bell surface's
// snapshot and the shared watermark.
func (m *Model) refreshBadge() {
	count := m.watermark.UnreadCount(m.bellRec.Feed().Snapshot())
	m.bellView.SetCount(count)
}

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.layout.RenderHeader(
		"Pulse · "+m.cfg.Server.Channel,
		m.bellView.View(),
	)

	var content string
	switch m.currentView {
	case ViewPanel:
		content = m.panelView.View()
	case ViewFeed:
		content = m.feedView.View()
	case ViewSettings:
		content = m.settingsView.View()
	default:
		content = m.homeView()
	}

	return m.layout.RenderWithFrame(header, content, m.statusBar())
}

// homeView renders the landing screen with the unread summary.
func (m Model) homeView() string {
	count := m.bellView.Count()
	summary := "You're all caught up."
	switch {
	case count == 1:
		summary = theme.UnreadStyle.Render("1 unread notification.")
	case count > 1:
		summary = theme.UnreadStyle.Render(
			fmt.Sprintf("%d unread notifications.", count))
	}

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		theme.UnreadStyle.Render("Pulse"),
		"",
		summary,
		"",
		theme.HelpStyle.Render("n notifications · f activity · s settings · q quit"),
	)

	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

// statusBar renders the bottom hint line for the active view.
func (m Model) statusBar() string {
	var hints string
	switch m.currentView {
	case ViewPanel:
		hints = "j/k move · m mark all read · esc close"
	case ViewFeed:
		hints = "j/k move · r retry · esc back"
	case ViewSettings:
		hints = "tab next · enter save · esc cancel"
	default:
		hints = "n notifications · f activity · s settings · ? help · q quit"
	}
	if m.showHelp {
		hints = "keys: " + hints
	}
	return m.layout.RenderStatusBar(hints)
}
