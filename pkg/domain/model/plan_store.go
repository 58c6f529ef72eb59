package model

import (
	"slices"

	"github.com/secmon-lab/perfectday/pkg/domain/types"
)

// IDGenerator produces identifiers for items entering the plan
type IDGenerator func() ItemID

// PlanStore holds the editable plan, the pool of suggestions and the
// confirmed snapshot of one session. It is not safe for concurrent use;
// callers serialize access (see repository/memory).
type PlanStore struct {
	plan        []ItineraryItem
	suggestions []SuggestionItem
	confirmed   []ItineraryItem
	location    LocationMeta
	nextID      IDGenerator
}

// PlanStoreOption configures a PlanStore
type PlanStoreOption func(*PlanStore)

// WithIDGenerator replaces the default UUIDv7 generator
func WithIDGenerator(gen IDGenerator) PlanStoreOption {
	return func(s *PlanStore) {
		s.nextID = gen
	}
}

// NewPlanStore creates an empty store
func NewPlanStore(opts ...PlanStoreOption) *PlanStore {
	s := &PlanStore{
		plan:        []ItineraryItem{},
		suggestions: []SuggestionItem{},
		confirmed:   []ItineraryItem{},
		nextID:      NewItemID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReplaceAll overwrites plan, suggestions and location with a fresh intake
// result. Every plan entry gets a new identity. The confirmed snapshot is kept.
func (s *PlanStore) ReplaceAll(plan []PlannedActivity, suggestions []SuggestionItem, meta LocationMeta) {
	newPlan := make([]ItineraryItem, 0, len(plan))
	for _, p := range plan {
		newPlan = append(newPlan, ItineraryItem{
			ID:       s.nextID(),
			Time:     p.Time,
			Activity: p.Activity,
		})
	}

	s.plan = newPlan
	s.suggestions = slices.Clone(suggestions)
	if s.suggestions == nil {
		s.suggestions = []SuggestionItem{}
	}
	s.location = meta
}

// AddToPlan appends the suggestion's activity to the end of the plan under a
// new id and removes the suggestion with the same id from the pool. When no
// suggestion matches, the item is still appended and the pool is left as is.
func (s *PlanStore) AddToPlan(suggestion SuggestionItem) ItineraryItem {
	item := ItineraryItem{
		ID:       s.nextID(),
		Time:     "",
		Activity: suggestion.Activity,
	}
	s.plan = append(s.plan, item)

	if idx := slices.IndexFunc(s.suggestions, func(x SuggestionItem) bool {
		return x.ID == suggestion.ID
	}); idx >= 0 {
		s.suggestions = slices.Delete(s.suggestions, idx, idx+1)
	}

	return item
}

// UpdatePlanItem sets field of the item matching id. It reports whether an
// item was changed; unknown ids and fields other than time/activity are no-ops.
func (s *PlanStore) UpdatePlanItem(id ItemID, field types.ItemField, value string) bool {
	if !field.IsValid() {
		return false
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	switch field {
	case types.ItemFieldTime:
		s.plan[idx].Time = value
	case types.ItemFieldActivity:
		s.plan[idx].Activity = value
	}
	return true
}

// RemoveFromPlan drops the item matching id. It reports whether an item was
// removed. Nothing is returned to the suggestion pool.
func (s *PlanStore) RemoveFromPlan(id ItemID) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.plan = slices.Delete(s.plan, idx, idx+1)
	return true
}

// Confirm freezes a copy of the current plan as the confirmed snapshot and
// returns another copy of it.
func (s *PlanStore) Confirm() []ItineraryItem {
	s.confirmed = slices.Clone(s.plan)
	return slices.Clone(s.confirmed)
}

// Plan returns a copy of the current plan
func (s *PlanStore) Plan() []ItineraryItem {
	return slices.Clone(s.plan)
}

// Suggestions returns a copy of the suggestion pool
func (s *PlanStore) Suggestions() []SuggestionItem {
	return slices.Clone(s.suggestions)
}

// Confirmed returns a copy of the confirmed snapshot
func (s *PlanStore) Confirmed() []ItineraryItem {
	return slices.Clone(s.confirmed)
}

// Location returns the location of the last intake
func (s *PlanStore) Location() LocationMeta {
	return s.location
}

func (s *PlanStore) indexOf(id ItemID) int {
	return slices.IndexFunc(s.plan, func(x ItineraryItem) bool {
		return x.ID == id
	})
}
