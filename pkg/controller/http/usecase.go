package http

import (
	"context"

	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// GenerateUseCase produces a plan for a position
type GenerateUseCase interface {
	Generate(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error)
}

// SessionUseCase operates the plan store of a session
type SessionUseCase interface {
	CreateSession(ctx context.Context) (*model.SessionState, error)
	GetSession(ctx context.Context, id model.SessionID) (*model.SessionState, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	Generate(ctx context.Context, id model.SessionID, resolver interfaces.LocationResolver) (*model.SessionState, error)
	AddToPlan(ctx context.Context, id model.SessionID, suggestion model.SuggestionItem) (*model.ItineraryItem, *model.SessionState, error)
	UpdatePlanItem(ctx context.Context, id model.SessionID, itemID model.ItemID, field string, value string) (*model.SessionState, error)
	RemoveFromPlan(ctx context.Context, id model.SessionID, itemID model.ItemID) (*model.SessionState, error)
	Confirm(ctx context.Context, id model.SessionID) ([]model.ItineraryItem, error)
	ExportImage(ctx context.Context, id model.SessionID, sink interfaces.ArtifactSink) (model.ExportOutcome, error)
	ExportDocument(ctx context.Context, id model.SessionID, sink interfaces.ArtifactSink) (model.ExportOutcome, error)
}
