package geocode

import (
	"context"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// UnknownCity is reported when the address has neither a city nor a town
const UnknownCity = "Unknown City"

// Service resolves coordinates into a place name
type Service interface {
	// ReverseCity returns the city (or town) at coords
	ReverseCity(ctx context.Context, coords model.Coordinates) (string, error)
}

type reverseResponse struct {
	Address struct {
		City string `json:"city"`
		Town string `json:"town"`
	} `json:"address"`
}

func (r *reverseResponse) cityName() string {
	if r.Address.City != "" {
		return r.Address.City
	}
	if r.Address.Town != "" {
		return r.Address.Town
	}
	return UnknownCity
}
