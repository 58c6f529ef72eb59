package planner

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// ErrMalformedResponse is returned when the model output cannot be read as a plan
var ErrMalformedResponse = goerr.New("AI failed to format JSON")

const (
	DefaultMinPlanItems    = 3
	DefaultMaxPlanItems    = 4
	DefaultSuggestionCount = 3
)

// Service drafts a day itinerary for a place
type Service interface {
	// Draft asks the model for scheduled activities and unscheduled suggestions.
	// Every activity is expected to start after Input.Now.
	Draft(ctx context.Context, input Input) (*Draft, error)
}

// Input carries the context the model plans around
type Input struct {
	City    string
	Weather string
	Now     time.Time
}

// Draft is the model's proposal before any id is assigned on the plan side
type Draft struct {
	Plan        []model.PlannedActivity
	Suggestions []model.SuggestionItem
}

type llmResponse struct {
	Plan        []llmPlanEntry       `json:"plan"`
	Suggestions []llmSuggestionEntry `json:"suggestions"`
}

type llmPlanEntry struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type llmSuggestionEntry struct {
	ID       string `json:"id"`
	Activity string `json:"activity"`
}
