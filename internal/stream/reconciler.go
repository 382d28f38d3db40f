// Package stream owns the fetch-then-subscribe lifecycle that feeds
// one surface's event store from the backend.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskboardhq/pulse/internal/feed"
	"github.com/taskboardhq/pulse/internal/model"
	"github.com/taskboardhq/pulse/internal/notify"
	"github.com/taskboardhq/pulse/internal/remote"
	"github.com/taskboardhq/pulse/internal/store"
)

// State is the lifecycle state of one reconciler instance.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateSubscribed
	StateFailed
)

// String returns a short label for the state, used in the status bar.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateSubscribed:
		return "live"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Logger receives debug traces from the reconciler. Optional.
type Logger interface {
	Printf(format string, args ...any)
}

// SeededMsg is a tea.Msg delivered when the historical fetch resolved.
type SeededMsg struct {
	Surface string
	Events  []model.ActivityEvent

	gen int
}

// LiveEventMsg is a tea.Msg delivered for each live event.
type LiveEventMsg struct {
	Surface string
	Event   model.ActivityEvent

	gen int
}

// FailedMsg is a tea.Msg delivered when the historical fetch failed.
// The surface may present a retry action; the live subscription is
// withheld until a fetch succeeds.
type FailedMsg struct {
	Surface string
	Err     error

	gen int
}

// ClosedMsg is a tea.Msg delivered when the live channel ends without
// the surface asking for it (transport drop). Re-subscribing is the
// consumer's decision.
type ClosedMsg struct {
	Surface string

	gen int
}

// Options configures one reconciler instance.
type Options struct {
	// Surface names the consumer (bell, panel, feed) for routing.
	Surface string

	// Channel is the logical activity channel to subscribe to.
	Channel string

	// Identity scopes the historical query.
	Identity string

	// FetchLimit is the page size of the historical query; defaults
	// to the store cap.
	FetchLimit int

	// FetchTimeout bounds the historical query. Defaults to 15s.
	FetchTimeout time.Duration

	// Notifying marks the surface as notification-capable: the gate
	// runs for its live events.
	Notifying bool

	Logger Logger
}

// defaultFetchTimeout bounds the historical fetch so a dead backend
// surfaces as Failed instead of hanging the surface forever.
const defaultFetchTimeout = 15 * time.Second

// Reconciler merges the one-shot historical fetch and the continuous
// live subscription into a single event store.
//
// I/O runs in a goroutine per mount; all store mutation happens on
// the UI event loop via the Apply methods, so the feed store never
// needs a lock. Messages carry a mount generation: results of a fetch
// that was in flight when the surface unmounted are discarded on
// arrival instead of reviving a dead store.
type Reconciler struct {
	history remote.HistoryClient
	live    remote.LiveFeed
	feed    *feed.Store
	local   store.Store
	opts    Options

	msgCh chan tea.Msg

	mu     sync.Mutex
	state  State
	err    error
	cancel context.CancelFunc
	gen    int
}

// New creates a reconciler feeding the given event store.
// local may be nil; when set, seeded events are cached there so the
// next launch can render before the first fetch lands.
func New(
	history remote.HistoryClient,
	live remote.LiveFeed,
	fs *feed.Store,
	local store.Store,
	opts Options,
) *Reconciler {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = fs.Cap()
	}
	return &Reconciler{
		history: history,
		live:    live,
		feed:    fs,
		local:   local,
		opts:    opts,
		msgCh:   make(chan tea.Msg, 32),
		state:   StateIdle,
	}
}

// Feed returns the event store this reconciler owns.
func (r *Reconciler) Feed() *feed.Store {
	return r.feed
}

// State returns the current lifecycle state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the error of the last failed fetch, if any.
func (r *Reconciler) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Start begins the fetch-then-subscribe lifecycle and returns the
// subscription command. Valid from Idle and Failed (retry); any other
// state is a no-op apart from re-arming the wait command.
func (r *Reconciler) Start() tea.Cmd {
	r.mu.Lock()
	if r.state == StateFetching || r.state == StateSubscribed {
		r.mu.Unlock()
		return r.waitForMsg()
	}

	r.gen++
	gen := r.gen
	r.state = StateFetching
	r.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx, gen)

	return r.waitForMsg()
}

// Retry re-attempts the historical fetch after a failure.
func (r *Reconciler) Retry() tea.Cmd {
	return r.Start()
}

// Stop tears the lifecycle down: the live subscription is cancelled
// and any in-flight fetch result will be discarded on arrival.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.state = StateIdle
	r.err = nil
}

// run performs the historical fetch and, on success, holds the live
// subscription open until the context is cancelled.
func (r *Reconciler) run(ctx context.Context, gen int) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.opts.FetchTimeout)
	events, err := r.history.FetchActivity(fetchCtx, remote.FetchOptions{
		Identity: r.opts.Identity,
		Limit:    r.opts.FetchLimit,
	})
	cancel()

	if ctx.Err() != nil {
		// Unmounted while the fetch was in flight; discard.
		return
	}

	if err != nil {
		r.setState(gen, StateFailed, err)
		r.send(ctx, FailedMsg{Surface: r.opts.Surface, Err: err, gen: gen})
		return
	}

	// Seed strictly precedes any live delivery: the message channel
	// is ordered and the subscription is not opened until here.
	r.setState(gen, StateSubscribed, nil)
	r.send(ctx, SeededMsg{Surface: r.opts.Surface, Events: events, gen: gen})

	if r.local != nil && len(events) > 0 {
		// Best effort; a failed cache write only costs the next
		// launch its instant render.
		if cacheErr := r.local.CacheEvents(ctx, events); cacheErr != nil {
			r.logf("caching %d events: %v", len(events), cacheErr)
		}
	}

	liveCh, err := r.live.Subscribe(ctx, r.opts.Channel)
	if err != nil {
		r.setState(gen, StateFailed, err)
		r.send(ctx, FailedMsg{Surface: r.opts.Surface, Err: err, gen: gen})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-liveCh:
			if !ok {
				r.logf("live channel closed for %s", r.opts.Surface)
				r.send(ctx, ClosedMsg{Surface: r.opts.Surface, gen: gen})
				return
			}
			r.send(ctx, LiveEventMsg{Surface: r.opts.Surface, Event: e, gen: gen})
		}
	}
}

// setState records a state transition if the generation is current.
func (r *Reconciler) setState(gen int, state State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		return
	}
	r.state = state
	r.err = err
}

// send delivers a message to the UI without blocking teardown.
func (r *Reconciler) send(ctx context.Context, msg tea.Msg) {
	select {
	case r.msgCh <- msg:
	case <-ctx.Done():
	}
}

// waitForMsg returns a tea.Cmd that waits for the next reconciler
// message. Re-arm it after handling each message, the same way the
// Bubble Tea runtime expects long-lived subscriptions to work.
func (r *Reconciler) waitForMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}

// WaitForNextMsg re-arms the subscription command after a message has
// been processed.
func (r *Reconciler) WaitForNextMsg() tea.Cmd {
	return r.waitForMsg()
}

// ApplySeeded folds a seeded batch into the event store. It returns
// false for stale messages from a previous mount, which must not
// touch the store.
func (r *Reconciler) ApplySeeded(msg SeededMsg) bool {
	if !r.current(msg.gen) {
		return false
	}
	r.feed.Seed(msg.Events)
	return true
}

// ApplyLive folds one live event into the event store and, for
// notification-capable surfaces, runs the gate against the current
// settings. The decision is zero for duplicates: a re-delivered event
// must not ring twice.
func (r *Reconciler) ApplyLive(
	msg LiveEventMsg,
	identity string,
	settings model.NotificationSettings,
	permission notify.Permission,
) (notify.Decision, bool) {
	if !r.current(msg.gen) {
		return notify.Decision{}, false
	}

	changed := r.feed.IngestLive(msg.Event)
	if !changed || !r.opts.Notifying {
		return notify.Decision{}, changed
	}

	return notify.Decide(msg.Event, identity, settings, permission), changed
}

// Current reports whether a message belongs to the active mount.
func (r *Reconciler) Current(msg tea.Msg) bool {
	switch m := msg.(type) {
	case SeededMsg:
		return r.current(m.gen)
	case LiveEventMsg:
		return r.current(m.gen)
	case FailedMsg:
		return r.current(m.gen)
	case ClosedMsg:
		return r.current(m.gen)
	default:
		return false
	}
}

func (r *Reconciler) current(gen int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.gen
}

func (r *Reconciler) logf(format string, args ...any) {
	if r.opts.Logger == nil {
		return
	}
	r.opts.Logger.Printf("[%s] %s", r.opts.Surface, fmt.Sprintf(format, args...))
}
