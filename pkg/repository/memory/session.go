package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *model.Session
}

type sessionRepository struct {
	mu        sync.RWMutex
	sessions  map[model.SessionID]*sessionEntry
	storeOpts []model.PlanStoreOption
}

func newSessionRepository() *sessionRepository {
	return &sessionRepository{
		sessions: make(map[model.SessionID]*sessionEntry),
	}
}

func (r *sessionRepository) Create(ctx context.Context) (*model.SessionState, error) {
	now := time.Now().UTC()
	session := &model.Session{
		ID:        model.NewSessionID(),
		Store:     model.NewPlanStore(r.storeOpts...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = &sessionEntry{session: session}
	return session.State(), nil
}

func (r *sessionRepository) Get(ctx context.Context, id model.SessionID) (*model.SessionState, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Return a copy to prevent external modification
	return entry.session.State(), nil
}

func (r *sessionRepository) Update(ctx context.Context, id model.SessionID, fn func(store *model.PlanStore) error) (*model.SessionState, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.session.Store); err != nil {
		return nil, err
	}
	entry.session.UpdatedAt = time.Now().UTC()

	return entry.session.State(), nil
}

func (r *sessionRepository) Delete(ctx context.Context, id model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V(model.SessionIDKey, id))
	}

	delete(r.sessions, id)
	return nil
}

func (r *sessionRepository) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for id, entry := range r.sessions {
		// Skip sessions that are busy; they are being used right now.
		if !entry.mu.TryLock() {
			continue
		}
		idle := entry.session.UpdatedAt.Before(cutoff)
		entry.mu.Unlock()

		if idle {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *sessionRepository) lookup(id model.SessionID) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V(model.SessionIDKey, id))
	}
	return entry, nil
}
