package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
)

// SessionSweeper periodically drops sessions nobody has touched for longer
// than the TTL. Sessions live in process memory only, so without it an
// abandoned browser tab would hold its plan until shutdown.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type SessionSweeper struct {
	repo     interfaces.Repository
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperOption is a functional option for SessionSweeper
type SweeperOption func(*SessionSweeper)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SweeperOption {
	return func(w *SessionSweeper) {
		w.now = now
	}
}

// NewSessionSweeper creates a sweeper that checks every interval
func NewSessionSweeper(repo interfaces.Repository, ttl, interval time.Duration, opts ...SweeperOption) *SessionSweeper {
	w := &SessionSweeper{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background sweep loop without blocking
func (w *SessionSweeper) Start(ctx context.Context) error {
	if w.ttl <= 0 || w.interval <= 0 {
		return goerr.New("session sweeper needs a positive ttl and interval",
			goerr.V("ttl", w.ttl.String()), goerr.V("interval", w.interval.String()))
	}

	logging.Default().Info("Session sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logging.Default().Error("Session sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs a single cycle and returns how many sessions were dropped
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.ttl)

	n, err := w.repo.Session().DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to delete idle sessions", goerr.V("cutoff", cutoff))
	}

	if n > 0 {
		logging.Default().Info("Idle sessions dropped", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
