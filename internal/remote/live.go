package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/taskboardhq/pulse/internal/model"
)

// liveBuffer is the per-subscription delivery buffer. A slow consumer
// briefly lags rather than blocking the read loop.
const liveBuffer = 16

// WSFeed implements LiveFeed over a websocket connection to the
// backend's activity subscription endpoint.
type WSFeed struct {
	baseURL   string
	token     string
	sessionID string

	validator *Validator
}

// NewWSFeed creates a websocket live feed for the given backend.
func NewWSFeed(baseURL, token string, validator *Validator) *WSFeed {
	return &WSFeed{
		baseURL:   trimBaseURL(baseURL),
		token:     token,
		sessionID: uuid.NewString(),
		validator: validator,
	}
}

// Subscribe dials the subscription endpoint for the given logical
// channel and returns a channel of decoded events. The returned
// channel is closed when ctx is cancelled or the connection drops;
// reconnecting is the caller's decision. Messages failing schema
// validation are dropped and counted.
func (f *WSFeed) Subscribe(
	ctx context.Context,
	channel string,
) (<-chan model.ActivityEvent, error) {
	wsURL, err := f.subscribeURL(channel)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+f.token)
	header.Set("X-Pulse-Session", f.sessionID)

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(dialCtx, wsURL, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, &AuthError{
				Message: "subscription refused (401): check your API token",
			}
		}
		return nil, fmt.Errorf("dialing activity channel %q: %w", channel, err)
	}

	events := make(chan model.ActivityEvent, liveBuffer)
	go f.readLoop(ctx, conn, events)

	return events, nil
}

// readLoop decodes one activity record per websocket message until the
// context is cancelled or the connection fails, then closes the event
// channel so downstream consumers observe a deterministic end.
func (f *WSFeed) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	events chan<- model.ActivityEvent,
) {
	defer close(events)
	defer conn.Close(websocket.StatusNormalClosure, "")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		if f.validator != nil && !f.validator.Check(data) {
			continue
		}

		var e model.ActivityEvent
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}

		select {
		case events <- e:
		case <-ctx.Done():
			return
		}
	}
}

// subscribeURL builds the ws:// or wss:// URL for a channel.
func (f *WSFeed) subscribeURL(channel string) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", f.baseURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in base URL", u.Scheme)
	}

	u.Path = "/v1/activity/subscribe"
	q := url.Values{}
	q.Set("channel", channel)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
