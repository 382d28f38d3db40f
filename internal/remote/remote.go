// Package remote talks to the task-board backend: a one-shot
// historical activity query over HTTP and a continuous live channel
// over websocket.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskboardhq/pulse/internal/model"
)

// AuthError indicates that authentication has failed or expired.
// It is returned when the backend answers 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FetchOptions controls the historical activity query.
type FetchOptions struct {
	// Identity scopes the query to the boards visible to this user.
	Identity string

	// Limit and Offset paginate the result, newest first.
	Limit  int
	Offset int
}

// HistoryClient is the one-shot historical query interface. The
// response is ordered newest first; any non-2xx response surfaces as
// an error, which the reconciler maps to its Failed state.
type HistoryClient interface {
	FetchActivity(ctx context.Context, opts FetchOptions) ([]model.ActivityEvent, error)
}

// LiveFeed is the continuous push-delivery interface. Subscribe
// returns a channel that yields one newly created event at a time and
// is closed when ctx is cancelled or the transport fails. Delivery is
// at least once; deduplication happens downstream.
type LiveFeed interface {
	Subscribe(ctx context.Context, channel string) (<-chan model.ActivityEvent, error)
}
