package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
)

// StaticLocation is a position reported by the client, or the reason it
// could not report one.
type StaticLocation struct {
	Coordinates *model.Coordinates
	Error       types.LocationError
}

var _ interfaces.LocationResolver = StaticLocation{}

// ResolveLocation returns the reported coordinates. A denial maps to
// model.ErrLocationDenied; a missing position or any other reason maps to
// model.ErrLocationUnavailable.
func (l StaticLocation) ResolveLocation(ctx context.Context) (model.Coordinates, error) {
	switch l.Error {
	case types.LocationErrorDenied:
		return model.Coordinates{}, goerr.Wrap(model.ErrLocationDenied, "client denied location access")
	case types.LocationErrorUnsupported:
		return model.Coordinates{}, goerr.Wrap(model.ErrLocationUnavailable, "client has no location capability")
	}

	if l.Coordinates == nil {
		return model.Coordinates{}, goerr.Wrap(model.ErrLocationUnavailable, "no coordinates reported")
	}
	if err := ValidateCoordinates(*l.Coordinates); err != nil {
		return model.Coordinates{}, err
	}
	return *l.Coordinates, nil
}
