package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskboardhq/pulse/internal/app"
	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/notify"
	"github.com/taskboardhq/pulse/internal/remote"
	"github.com/taskboardhq/pulse/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st := openStore()
	defer st.Close()

	token := remote.ResolveToken()

	validator, err := remote.NewValidator()
	if err != nil {
		return fmt.Errorf("compiling activity schema: %w", err)
	}

	history := remote.NewClient(cfg.Server.BaseURL, token, validator)
	live := remote.NewWSFeed(cfg.Server.BaseURL, token, validator)

	var desktop notify.DesktopNotifier
	permission := notify.StaticPermission{State: notify.PermissionDenied}
	if n := notify.NewCommandNotifier("notify-send"); n != nil {
		desktop = n
		permission = notify.StaticPermission{State: notify.PermissionGranted}
	}

	root := app.New(app.Deps{
		Config:     cfg,
		Store:      st,
		History:    history,
		Live:       live,
		Permission: permission,
		Sounder:    notify.TerminalBell{},
		Desktop:    desktop,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openStore opens the SQLite store, falling back to a session-only
// in-memory store when the database cannot be opened. The app stays
// usable either way; watermark and settings just won't survive the
// session on the fallback path.
func openStore() store.Store {
	st, err := store.NewSQLiteStore(model.DefaultDataPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "pulse: local storage unavailable, running in-memory: %v\n", err)
		return store.NewMemoryStore()
	}
	return st
}
