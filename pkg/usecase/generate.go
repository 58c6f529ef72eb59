package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/service/geocode"
	"github.com/secmon-lab/perfectday/pkg/service/planner"
	"github.com/secmon-lab/perfectday/pkg/service/weather"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// GenerateUseCase produces a plan for a position: reverse geocoding and the
// weather lookup run concurrently, then the planner drafts the day.
type GenerateUseCase struct {
	geocoder geocode.Service
	weather  weather.Service
	planner  planner.Service
	now      func() time.Time
}

var _ interfaces.PlanRequester = (*GenerateUseCase)(nil)

type GenerateOption func(*GenerateUseCase)

// WithClock replaces time.Now for the current-time prompt
func WithClock(now func() time.Time) GenerateOption {
	return func(uc *GenerateUseCase) {
		uc.now = now
	}
}

func NewGenerateUseCase(geocoder geocode.Service, weatherSvc weather.Service, plannerSvc planner.Service, opts ...GenerateOption) *GenerateUseCase {
	uc := &GenerateUseCase{
		geocoder: geocoder,
		weather:  weatherSvc,
		planner:  plannerSvc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ValidateCoordinates checks that lat/lng are finite decimal degrees in range
func ValidateCoordinates(coords model.Coordinates) error {
	lat, lng := coords.Latitude, coords.Longitude
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) ||
		lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return goerr.Wrap(ErrInvalidCoordinates, "coordinates out of range",
			goerr.V(model.LatitudeKey, lat),
			goerr.V(model.LongitudeKey, lng))
	}
	return nil
}

// Generate builds a plan for coords. Errors wrap ErrInvalidCoordinates,
// ErrLookupFailed or planner.ErrMalformedResponse where they apply.
func (uc *GenerateUseCase) Generate(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	if err := ValidateCoordinates(coords); err != nil {
		return nil, err
	}

	var (
		city    string
		current *weather.Current
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		name, err := uc.geocoder.ReverseCity(egCtx, coords)
		if err != nil {
			return goerr.Wrap(errors.Join(ErrLookupFailed, err), "failed to resolve city")
		}
		city = name
		return nil
	})
	eg.Go(func() error {
		w, err := uc.weather.Current(egCtx, coords)
		if err != nil {
			return goerr.Wrap(errors.Join(ErrLookupFailed, err), "failed to get current weather")
		}
		current = w
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	weatherText := current.String()
	draft, err := uc.planner.Draft(ctx, planner.Input{
		City:    city,
		Weather: weatherText,
		Now:     uc.now(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to draft plan", goerr.V("city", city))
	}

	logging.From(ctx).Info("plan generated",
		slog.String("city", city),
		slog.String("weather", weatherText),
		slog.Int("plan", len(draft.Plan)),
		slog.Int("suggestions", len(draft.Suggestions)),
	)

	return &model.GeneratedPlan{
		City:        city,
		Weather:     weatherText,
		Plan:        draft.Plan,
		Suggestions: normalizeSuggestionIDs(draft.Suggestions),
	}, nil
}

// RequestPlan lets sessions use in-process generation
func (uc *GenerateUseCase) RequestPlan(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	return uc.Generate(ctx, coords)
}

// normalizeSuggestionIDs keeps model-provided ids when they are present and
// unique. Otherwise every suggestion is renumbered s1..sN so that promoting a
// suggestion removes exactly that one.
func normalizeSuggestionIDs(items []model.SuggestionItem) []model.SuggestionItem {
	seen := make(map[model.SuggestionID]struct{}, len(items))
	valid := true
	for _, s := range items {
		if _, dup := seen[s.ID]; s.ID == "" || dup {
			valid = false
			break
		}
		seen[s.ID] = struct{}{}
	}

	out := make([]model.SuggestionItem, len(items))
	for i, s := range items {
		out[i] = s
		if !valid {
			out[i].ID = model.SuggestionID(fmt.Sprintf("s%d", i+1))
		}
	}
	return out
}
