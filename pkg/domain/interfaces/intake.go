package interfaces

import (
	"context"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// LocationResolver provides the device position. It fails with
// model.ErrLocationUnavailable or model.ErrLocationDenied.
type LocationResolver interface {
	ResolveLocation(ctx context.Context) (model.Coordinates, error)
}

// PlanRequester turns coordinates into an initial plan and suggestion set
type PlanRequester interface {
	RequestPlan(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error)
}
