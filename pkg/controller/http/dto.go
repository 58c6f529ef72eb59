package http

import (
	"time"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

type coordinatesRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type sessionGenerateRequest struct {
	coordinatesRequest
	LocationError string `json:"location_error"`
}

type plannedActivityResponse struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type suggestionResponse struct {
	ID       string `json:"id"`
	Activity string `json:"activity"`
}

type itineraryItemResponse struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type generateResponse struct {
	City        string                    `json:"city"`
	Weather     string                    `json:"weather"`
	Plan        []plannedActivityResponse `json:"plan"`
	Suggestions []suggestionResponse      `json:"suggestions"`
}

type sessionResponse struct {
	ID          string                  `json:"id"`
	City        string                  `json:"city"`
	Weather     string                  `json:"weather"`
	Plan        []itineraryItemResponse `json:"plan"`
	Suggestions []suggestionResponse    `json:"suggestions"`
	Confirmed   []itineraryItemResponse `json:"confirmed"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type addToPlanRequest struct {
	ID       string `json:"id"`
	Activity string `json:"activity"`
}

type addToPlanResponse struct {
	Item    itineraryItemResponse `json:"item"`
	Session sessionResponse       `json:"session"`
}

type updatePlanItemRequest struct {
	Field string  `json:"field"`
	Value *string `json:"value"`
}

type confirmResponse struct {
	Confirmed []itineraryItemResponse `json:"confirmed"`
}

func toGenerateResponse(p *model.GeneratedPlan) generateResponse {
	resp := generateResponse{
		City:        p.City,
		Weather:     p.Weather,
		Plan:        make([]plannedActivityResponse, len(p.Plan)),
		Suggestions: toSuggestionResponses(p.Suggestions),
	}
	for i, a := range p.Plan {
		resp.Plan[i] = plannedActivityResponse{Time: a.Time, Activity: a.Activity}
	}
	return resp
}

func toSessionResponse(s *model.SessionState) sessionResponse {
	return sessionResponse{
		ID:          string(s.ID),
		City:        s.Location.City,
		Weather:     s.Location.Weather,
		Plan:        toItemResponses(s.Plan),
		Suggestions: toSuggestionResponses(s.Suggestions),
		Confirmed:   toItemResponses(s.Confirmed),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toItemResponse(item model.ItineraryItem) itineraryItemResponse {
	return itineraryItemResponse{ID: string(item.ID), Time: item.Time, Activity: item.Activity}
}

func toItemResponses(items []model.ItineraryItem) []itineraryItemResponse {
	out := make([]itineraryItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toSuggestionResponses(items []model.SuggestionItem) []suggestionResponse {
	out := make([]suggestionResponse, len(items))
	for i, s := range items {
		out[i] = suggestionResponse{ID: string(s.ID), Activity: s.Activity}
	}
	return out
}
