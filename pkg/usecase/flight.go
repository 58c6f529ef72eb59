package usecase

import (
	"sync"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// flightGuard allows at most one operation of a kind per session at a time
type flightGuard struct {
	mu     sync.Mutex
	active map[model.SessionID]struct{}
}

func newFlightGuard() *flightGuard {
	return &flightGuard{active: make(map[model.SessionID]struct{})}
}

// acquire marks id busy. It returns false when an operation is already
// running; otherwise the returned func releases the slot.
func (g *flightGuard) acquire(id model.SessionID) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[id]; busy {
		return nil, false
	}
	g.active[id] = struct{}{}

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.active, id)
	}, true
}
