package model

import (
	"github.com/google/uuid"
)

// ItemID identifies an entry of the plan. It is always assigned by the store,
// never taken from a backend payload.
type ItemID string

// NewItemID generates a new ItemID from a UUIDv7. Version 7 keeps a monotonic
// sequence inside a single millisecond, so ids generated back to back within
// one clock tick never collide.
func NewItemID() ItemID {
	return ItemID("plan-" + uuid.Must(uuid.NewV7()).String())
}

// SuggestionID is the backend-assigned identifier of a suggestion
type SuggestionID string

// ItineraryItem is a time-stamped activity of the plan
type ItineraryItem struct {
	ID       ItemID
	Time     string
	Activity string
}

// SuggestionItem is a candidate activity that can be promoted into the plan
type SuggestionItem struct {
	ID       SuggestionID
	Activity string
}

// PlannedActivity is a plan entry as delivered by the intake, before the store
// gives it an identity.
type PlannedActivity struct {
	Time     string
	Activity string
}

// LocationMeta describes where the plan was generated for
type LocationMeta struct {
	City    string
	Weather string
}

// Coordinates is a device position in decimal degrees
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// GeneratedPlan is the payload produced by the intake for one location
type GeneratedPlan struct {
	City        string
	Weather     string
	Plan        []PlannedActivity
	Suggestions []SuggestionItem
}

// Location returns the location metadata of the generated plan
func (p *GeneratedPlan) Location() LocationMeta {
	return LocationMeta{City: p.City, Weather: p.Weather}
}
