package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

func (c coordinatesRequest) coordinates() (*model.Coordinates, error) {
	if c.Lat == nil || c.Lng == nil {
		return nil, goerr.Wrap(errBadRequest, "lat and lng are required")
	}
	return &model.Coordinates{Latitude: *c.Lat, Longitude: *c.Lng}, nil
}

func generateHandler(uc GenerateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req coordinatesRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		coords, err := req.coordinates()
		if err != nil {
			handleError(w, r, err)
			return
		}

		plan, err := uc.Generate(ctx, *coords)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, toGenerateResponse(plan))
	}
}
