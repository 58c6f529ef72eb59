package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/service/planner"
	"github.com/secmon-lab/perfectday/pkg/usecase"
	"github.com/secmon-lab/perfectday/pkg/utils/errutil"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"github.com/secmon-lab/perfectday/pkg/utils/safe"
)

// maxBodySize caps request bodies; every request payload is a small JSON object
const maxBodySize = 64 << 10

var errBadRequest = goerr.New("bad request")

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError, "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errors.Join(errBadRequest, err), "invalid JSON body")
	}
	return nil
}

// errorStatus maps an error onto the HTTP status and the message shown to clients
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid request body"
	case errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, usecase.ErrInvalidCoordinates):
		return http.StatusBadRequest, "lat and lng must be valid coordinates"
	case errors.Is(err, usecase.ErrInvalidField):
		return http.StatusBadRequest, "field must be time or activity"
	case errors.Is(err, usecase.ErrIntakeInFlight):
		return http.StatusConflict, "a plan request is already in progress"
	case errors.Is(err, usecase.ErrCaptureInFlight):
		return http.StatusConflict, "an export is already in progress"
	case errors.Is(err, model.ErrLocationDenied):
		return http.StatusForbidden, "location access denied"
	case errors.Is(err, model.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity, "location is not available"
	case errors.Is(err, model.ErrIntakeFailed):
		return http.StatusBadGateway, "failed to obtain a plan"
	case errors.Is(err, planner.ErrMalformedResponse):
		return http.StatusInternalServerError, "AI failed to format JSON"
	case errors.Is(err, usecase.ErrLookupFailed):
		return http.StatusBadGateway, "failed to look up location details"
	case errors.Is(err, model.ErrCaptureFailed):
		return http.StatusInternalServerError, "failed to capture itinerary"
	case errors.Is(err, model.ErrEncodeFailed):
		return http.StatusInternalServerError, "failed to encode itinerary"
	default:
		return http.StatusInternalServerError, ""
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	errutil.HandleHTTP(r.Context(), w, err, status, msg)
}

// responseSink writes an exported artifact as a file download
type responseSink struct {
	w       http.ResponseWriter
	written bool
}

func (s *responseSink) Save(ctx context.Context, artifact *model.Artifact) error {
	h := s.w.Header()
	h.Set("Content-Type", artifact.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName()))
	h.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	s.w.WriteHeader(http.StatusOK)
	s.written = true

	if _, err := s.w.Write(artifact.Data); err != nil {
		logging.From(ctx).Warn("failed to send export", slog.String("file", artifact.FileName()), slog.Any("error", err))
	}
	return nil
}
