package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
	"github.com/secmon-lab/perfectday/pkg/service/archive"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
)

// SessionUseCase drives the plan store of each session: intake, the five
// editing operations and exports.
type SessionUseCase struct {
	repo      interfaces.Repository
	requester interfaces.PlanRequester
	pipeline  *export.Pipeline
	archive   *archive.Archive

	intake  *flightGuard
	capture *flightGuard
}

func NewSessionUseCase(repo interfaces.Repository, requester interfaces.PlanRequester, pipeline *export.Pipeline, archiveStore *archive.Archive) *SessionUseCase {
	if pipeline == nil {
		pipeline = export.NewPipeline()
	}
	return &SessionUseCase{
		repo:      repo,
		requester: requester,
		pipeline:  pipeline,
		archive:   archiveStore,
		intake:    newFlightGuard(),
		capture:   newFlightGuard(),
	}
}

func (uc *SessionUseCase) CreateSession(ctx context.Context) (*model.SessionState, error) {
	state, err := uc.repo.Session().Create(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}
	logging.From(ctx).Info("session created", slog.String("session_id", string(state.ID)))
	return state, nil
}

func (uc *SessionUseCase) GetSession(ctx context.Context, id model.SessionID) (*model.SessionState, error) {
	state, err := uc.repo.Session().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V(model.SessionIDKey, id))
	}
	return state, nil
}

func (uc *SessionUseCase) DeleteSession(ctx context.Context, id model.SessionID) error {
	if err := uc.repo.Session().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V(model.SessionIDKey, id))
	}
	return nil
}

// Generate resolves the location, requests a plan and replaces the store
// content with it. On any failure the store is left untouched. A second call
// for the same session while one is pending fails with ErrIntakeInFlight.
func (uc *SessionUseCase) Generate(ctx context.Context, id model.SessionID, resolver interfaces.LocationResolver) (*model.SessionState, error) {
	if uc.requester == nil {
		return nil, goerr.Wrap(model.ErrIntakeFailed, "plan generation is not configured")
	}
	if _, err := uc.GetSession(ctx, id); err != nil {
		return nil, err
	}

	release, ok := uc.intake.acquire(id)
	if !ok {
		return nil, goerr.Wrap(ErrIntakeInFlight, "intake rejected", goerr.V(model.SessionIDKey, id))
	}
	defer release()

	coords, err := resolver.ResolveLocation(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve location", goerr.V(model.SessionIDKey, id))
	}

	plan, err := uc.requester.RequestPlan(ctx, coords)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrIntakeFailed, err), "failed to request plan",
			goerr.V(model.SessionIDKey, id),
			goerr.V(model.LatitudeKey, coords.Latitude),
			goerr.V(model.LongitudeKey, coords.Longitude))
	}

	// If the session was deleted meanwhile, Update fails with not found and
	// the plan is discarded.
	state, err := uc.repo.Session().Update(ctx, id, func(store *model.PlanStore) error {
		store.ReplaceAll(plan.Plan, plan.Suggestions, plan.Location())
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store generated plan", goerr.V(model.SessionIDKey, id))
	}

	return state, nil
}

// AddToPlan promotes a suggestion into the plan with an empty time
func (uc *SessionUseCase) AddToPlan(ctx context.Context, id model.SessionID, suggestion model.SuggestionItem) (*model.ItineraryItem, *model.SessionState, error) {
	var added model.ItineraryItem
	state, err := uc.repo.Session().Update(ctx, id, func(store *model.PlanStore) error {
		added = store.AddToPlan(suggestion)
		return nil
	})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to add to plan", goerr.V(model.SessionIDKey, id))
	}
	return &added, state, nil
}

// UpdatePlanItem edits the time or activity of a plan item. An unknown item
// id leaves the plan unchanged; an unknown field is ErrInvalidField.
func (uc *SessionUseCase) UpdatePlanItem(ctx context.Context, id model.SessionID, itemID model.ItemID, field string, value string) (*model.SessionState, error) {
	parsed, err := types.ParseItemField(field)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidField, "unsupported field", goerr.V(FieldKey, field))
	}

	state, err := uc.repo.Session().Update(ctx, id, func(store *model.PlanStore) error {
		store.UpdatePlanItem(itemID, parsed, value)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update plan item",
			goerr.V(model.SessionIDKey, id),
			goerr.V(model.ItemIDKey, itemID))
	}
	return state, nil
}

// RemoveFromPlan drops a plan item. Nothing is returned to the suggestions.
func (uc *SessionUseCase) RemoveFromPlan(ctx context.Context, id model.SessionID, itemID model.ItemID) (*model.SessionState, error) {
	state, err := uc.repo.Session().Update(ctx, id, func(store *model.PlanStore) error {
		store.RemoveFromPlan(itemID)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to remove plan item",
			goerr.V(model.SessionIDKey, id),
			goerr.V(model.ItemIDKey, itemID))
	}
	return state, nil
}

// Confirm freezes the current plan as the snapshot exports are made from
func (uc *SessionUseCase) Confirm(ctx context.Context, id model.SessionID) ([]model.ItineraryItem, error) {
	var snapshot []model.ItineraryItem
	if _, err := uc.repo.Session().Update(ctx, id, func(store *model.PlanStore) error {
		snapshot = store.Confirm()
		return nil
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to confirm plan", goerr.V(model.SessionIDKey, id))
	}
	return snapshot, nil
}

// ExportImage renders the confirmed snapshot to my-perfect-day.png. With an
// empty snapshot there is nothing rendered and the outcome is skipped.
func (uc *SessionUseCase) ExportImage(ctx context.Context, id model.SessionID, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
	return uc.runExport(ctx, id, sink, types.ExportKindImage)
}

// ExportDocument renders the confirmed snapshot to my-perfect-day.pdf
func (uc *SessionUseCase) ExportDocument(ctx context.Context, id model.SessionID, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
	return uc.runExport(ctx, id, sink, types.ExportKindDocument)
}

func (uc *SessionUseCase) runExport(ctx context.Context, id model.SessionID, sink interfaces.ArtifactSink, kind types.ExportKind) (model.ExportOutcome, error) {
	state, err := uc.GetSession(ctx, id)
	if err != nil {
		return "", err
	}

	release, ok := uc.capture.acquire(id)
	if !ok {
		return "", goerr.Wrap(ErrCaptureInFlight, "export rejected",
			goerr.V(model.SessionIDKey, id),
			goerr.V(model.ExportKey, kind))
	}
	defer release()

	if uc.archive != nil {
		sink = export.MultiSink{sink, uc.archive.SinkFor(id)}
	}

	target := export.NewItinerary(state.Location, state.Confirmed)

	var outcome model.ExportOutcome
	switch kind {
	case types.ExportKindImage:
		outcome, err = uc.pipeline.ExportImage(ctx, target, sink)
	default:
		outcome, err = uc.pipeline.ExportDocument(ctx, target, sink)
	}
	if err != nil {
		return "", goerr.Wrap(err, "export failed",
			goerr.V(model.SessionIDKey, id),
			goerr.V(model.ExportKey, kind))
	}
	return outcome, nil
}
