package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionID identifies one editing session. Each session owns exactly one PlanStore.
type SessionID string

// NewSessionID generates a new UUIDv7 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// Session is a PlanStore bound to its lifetime metadata
type Session struct {
	ID        SessionID
	Store     *PlanStore
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionState is a detached, read-only view of a session
type SessionState struct {
	ID          SessionID
	Location    LocationMeta
	Plan        []ItineraryItem
	Suggestions []SuggestionItem
	Confirmed   []ItineraryItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// State copies the current content of the session
func (s *Session) State() *SessionState {
	return &SessionState{
		ID:          s.ID,
		Location:    s.Store.Location(),
		Plan:        s.Store.Plan(),
		Suggestions: s.Store.Suggestions(),
		Confirmed:   s.Store.Confirmed(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
