package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// SessionRepository keeps one PlanStore per session. Implementations
// serialize Update calls on the same session, which is what makes the five
// plan store operations safe under concurrent HTTP requests.
type SessionRepository interface {
	// Create starts a new session with an empty plan store
	Create(ctx context.Context) (*model.SessionState, error)

	// Get returns a detached copy of the session
	Get(ctx context.Context, id model.SessionID) (*model.SessionState, error)

	// Update runs fn against the session's plan store while holding its lock.
	// If fn returns an error the error is passed through unchanged.
	Update(ctx context.Context, id model.SessionID, fn func(store *model.PlanStore) error) (*model.SessionState, error)

	// Delete drops the session
	Delete(ctx context.Context, id model.SessionID) error

	// DeleteIdle drops every session last updated before the cutoff and
	// returns how many were dropped
	DeleteIdle(ctx context.Context, cutoff time.Time) (int, error)
}
