package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
	"github.com/secmon-lab/perfectday/pkg/repository/memory"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/usecase"
)

type mockRequester struct {
	requestPlanFn func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error)
}

func (m *mockRequester) RequestPlan(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	if m.requestPlanFn != nil {
		return m.requestPlanFn(ctx, coords)
	}
	return samplePlan(), nil
}

func samplePlan() *model.GeneratedPlan {
	return &model.GeneratedPlan{
		City:    "London",
		Weather: "15.0°C, Clear",
		Plan: []model.PlannedActivity{
			{Time: "10:00 AM", Activity: "Breakfast"},
			{Time: "12:00 PM", Activity: "Gallery"},
		},
		Suggestions: []model.SuggestionItem{
			{ID: "s1", Activity: "Museum"},
			{ID: "s2", Activity: "Park"},
		},
	}
}

type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSink) Save(ctx context.Context, artifact *model.Artifact) error {
	close(b.entered)
	<-b.release
	return nil
}

func sequentialIDs() model.IDGenerator {
	n := 0
	return func() model.ItemID {
		n++
		return model.ItemID(fmt.Sprintf("plan-%d", n))
	}
}

func newSessionUseCase(t *testing.T, requester *mockRequester) (*usecase.SessionUseCase, model.SessionID) {
	t.Helper()
	repo := memory.New(memory.WithIDGenerator(sequentialIDs()))
	uc := usecase.New(repo, usecase.WithPlanRequester(requester)).Session

	state, err := uc.CreateSession(context.Background())
	gt.NoError(t, err).Required()
	return uc, state.ID
}

var here = usecase.StaticLocation{Coordinates: &london}

func TestSessionUseCase_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces store content", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})

		state, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()

		gt.Value(t, state.Location).Equal(model.LocationMeta{City: "London", Weather: "15.0°C, Clear"})
		gt.Array(t, state.Plan).Length(2)
		gt.Value(t, state.Plan[0]).Equal(model.ItineraryItem{ID: "plan-1", Time: "10:00 AM", Activity: "Breakfast"})
		gt.Array(t, state.Suggestions).Length(2)
		gt.Array(t, state.Confirmed).Length(0)
	})

	t.Run("location failures leave the store untouched", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})
		before, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()

		_, err = uc.Generate(ctx, id, usecase.StaticLocation{Error: types.LocationErrorDenied})
		gt.Error(t, err).Is(model.ErrLocationDenied)

		_, err = uc.Generate(ctx, id, usecase.StaticLocation{Error: types.LocationErrorUnsupported})
		gt.Error(t, err).Is(model.ErrLocationUnavailable)

		_, err = uc.Generate(ctx, id, usecase.StaticLocation{})
		gt.Error(t, err).Is(model.ErrLocationUnavailable)

		after, err := uc.GetSession(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, after.Plan).Equal(before.Plan)
		gt.Value(t, after.Suggestions).Equal(before.Suggestions)
	})

	t.Run("intake failure leaves the store untouched", func(t *testing.T) {
		fail := false
		uc, id := newSessionUseCase(t, &mockRequester{
			requestPlanFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				if fail {
					return nil, errors.New("backend down")
				}
				return samplePlan(), nil
			},
		})
		before, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()

		fail = true
		_, err = uc.Generate(ctx, id, here)
		gt.Error(t, err).Is(model.ErrIntakeFailed)

		after, err := uc.GetSession(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, after.Plan).Equal(before.Plan)
	})

	t.Run("second intake while pending is rejected", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		uc, id := newSessionUseCase(t, &mockRequester{
			requestPlanFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				close(entered)
				<-release
				return samplePlan(), nil
			},
		})

		done := make(chan error, 1)
		go func() {
			_, err := uc.Generate(ctx, id, here)
			done <- err
		}()
		<-entered

		_, err := uc.Generate(ctx, id, here)
		gt.Error(t, err).Is(usecase.ErrIntakeInFlight)

		close(release)
		gt.NoError(t, <-done)
	})

	t.Run("result is discarded when session was deleted", func(t *testing.T) {
		var uc *usecase.SessionUseCase
		var id model.SessionID
		uc, id = newSessionUseCase(t, &mockRequester{
			requestPlanFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				gt.NoError(t, uc.DeleteSession(ctx, id))
				return samplePlan(), nil
			},
		})

		_, err := uc.Generate(ctx, id, here)
		gt.Error(t, err).Is(model.ErrSessionNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		uc, _ := newSessionUseCase(t, &mockRequester{})
		_, err := uc.Generate(ctx, "missing", here)
		gt.Error(t, err).Is(model.ErrSessionNotFound)
	})
}

func TestSessionUseCase_Editing(t *testing.T) {
	ctx := context.Background()

	t.Run("add, update, remove and confirm", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})
		_, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()

		added, state, err := uc.AddToPlan(ctx, id, model.SuggestionItem{ID: "s1", Activity: "Museum"})
		gt.NoError(t, err).Required()
		gt.Value(t, *added).Equal(model.ItineraryItem{ID: "plan-3", Time: "", Activity: "Museum"})
		gt.Array(t, state.Plan).Length(3)
		gt.Array(t, state.Suggestions).Equal([]model.SuggestionItem{{ID: "s2", Activity: "Park"}})

		state, err = uc.UpdatePlanItem(ctx, id, added.ID, "time", "3:00 PM")
		gt.NoError(t, err).Required()
		gt.Value(t, state.Plan[2].Time).Equal("3:00 PM")

		_, err = uc.UpdatePlanItem(ctx, id, added.ID, "id", "plan-99")
		gt.Error(t, err).Is(usecase.ErrInvalidField)

		state, err = uc.UpdatePlanItem(ctx, id, "plan-404", "activity", "ignored")
		gt.NoError(t, err).Required()
		gt.Array(t, state.Plan).Length(3)

		state, err = uc.RemoveFromPlan(ctx, id, "plan-1")
		gt.NoError(t, err).Required()
		gt.Array(t, state.Plan).Length(2)
		gt.Array(t, state.Suggestions).Length(1)

		snapshot, err := uc.Confirm(ctx, id)
		gt.NoError(t, err).Required()
		gt.Array(t, snapshot).Equal([]model.ItineraryItem{
			{ID: "plan-2", Time: "12:00 PM", Activity: "Gallery"},
			{ID: "plan-3", Time: "3:00 PM", Activity: "Museum"},
		})

		_, err = uc.UpdatePlanItem(ctx, id, "plan-2", "activity", "Changed")
		gt.NoError(t, err).Required()

		state, err = uc.GetSession(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, state.Confirmed[0].Activity).Equal("Gallery")
	})

	t.Run("unknown session", func(t *testing.T) {
		uc, _ := newSessionUseCase(t, &mockRequester{})

		_, _, err := uc.AddToPlan(ctx, "missing", model.SuggestionItem{ID: "s1"})
		gt.Error(t, err).Is(model.ErrSessionNotFound)
		_, err = uc.Confirm(ctx, "missing")
		gt.Error(t, err).Is(model.ErrSessionNotFound)
		gt.Error(t, uc.DeleteSession(ctx, "missing")).Is(model.ErrSessionNotFound)
	})
}

func TestSessionUseCase_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing confirmed is skipped", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})
		sink := &export.MemorySink{}

		outcome, err := uc.ExportImage(ctx, id, sink)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(model.ExportSkipped)
		gt.Value(t, sink.Artifact).Nil()

		outcome, err = uc.ExportDocument(ctx, id, sink)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(model.ExportSkipped)
	})

	t.Run("confirmed plan is exported", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})
		_, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()
		_, err = uc.Confirm(ctx, id)
		gt.NoError(t, err).Required()

		sink := &export.MemorySink{}
		outcome, err := uc.ExportImage(ctx, id, sink)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(model.ExportSaved)
		gt.String(t, sink.Artifact.FileName()).Equal("my-perfect-day.png")

		outcome, err = uc.ExportDocument(ctx, id, sink)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(model.ExportSaved)
		gt.String(t, sink.Artifact.FileName()).Equal("my-perfect-day.pdf")
	})

	t.Run("second export while capturing is rejected", func(t *testing.T) {
		uc, id := newSessionUseCase(t, &mockRequester{})
		_, err := uc.Generate(ctx, id, here)
		gt.NoError(t, err).Required()
		_, err = uc.Confirm(ctx, id)
		gt.NoError(t, err).Required()

		sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
		done := make(chan error, 1)
		go func() {
			_, err := uc.ExportImage(ctx, id, sink)
			done <- err
		}()
		<-sink.entered

		_, err = uc.ExportDocument(ctx, id, &export.MemorySink{})
		gt.Error(t, err).Is(usecase.ErrCaptureInFlight)

		close(sink.release)
		gt.NoError(t, <-done)

		_, err = uc.ExportDocument(ctx, id, &export.MemorySink{})
		gt.NoError(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		uc, _ := newSessionUseCase(t, &mockRequester{})
		_, err := uc.ExportImage(ctx, "missing", &export.MemorySink{})
		gt.Error(t, err).Is(model.ErrSessionNotFound)
	})
}

func TestSessionUseCase_NoRequester(t *testing.T) {
	uc := usecase.New(memory.New()).Session
	state, err := uc.CreateSession(context.Background())
	gt.NoError(t, err).Required()

	_, err = uc.Generate(context.Background(), state.ID, here)
	gt.Error(t, err).Is(model.ErrIntakeFailed)
}
