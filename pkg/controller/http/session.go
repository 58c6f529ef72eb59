package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
	"github.com/secmon-lab/perfectday/pkg/usecase"
	"github.com/secmon-lab/perfectday/pkg/utils/errutil"
)

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(chi.URLParam(r, "sessionID"))
}

func itemID(r *http.Request) model.ItemID {
	return model.ItemID(chi.URLParam(r, "itemID"))
}

func createSessionHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := uc.CreateSession(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toSessionResponse(state))
	}
}

func getSessionHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := uc.GetSession(r.Context(), sessionID(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func deleteSessionHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteSession(r.Context(), sessionID(r)); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// generateSessionHandler accepts either the device position or the reason
// the device could not provide one.
func generateSessionHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionGenerateRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		locErr, err := types.ParseLocationError(req.LocationError)
		if err != nil {
			handleError(w, r, goerr.Wrap(errBadRequest, "unknown location_error", goerr.V("location_error", req.LocationError)))
			return
		}

		var resolver interfaces.LocationResolver = usecase.StaticLocation{Error: locErr}
		if locErr == types.LocationErrorNone {
			coords, err := req.coordinates()
			if err != nil {
				handleError(w, r, err)
				return
			}
			resolver = usecase.StaticLocation{Coordinates: coords}
		}

		state, err := uc.Generate(r.Context(), sessionID(r), resolver)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func addToPlanHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addToPlanRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		item, state, err := uc.AddToPlan(r.Context(), sessionID(r), model.SuggestionItem{
			ID:       model.SuggestionID(req.ID),
			Activity: req.Activity,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, addToPlanResponse{
			Item:    toItemResponse(*item),
			Session: toSessionResponse(state),
		})
	}
}

func updatePlanItemHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePlanItemRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.Value == nil {
			handleError(w, r, goerr.Wrap(errBadRequest, "value is required"))
			return
		}

		state, err := uc.UpdatePlanItem(r.Context(), sessionID(r), itemID(r), req.Field, *req.Value)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func removeFromPlanHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := uc.RemoveFromPlan(r.Context(), sessionID(r), itemID(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func confirmHandler(uc SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := uc.Confirm(r.Context(), sessionID(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, confirmResponse{Confirmed: toItemResponses(snapshot)})
	}
}

type exportFunc func(r *http.Request, sink interfaces.ArtifactSink) (model.ExportOutcome, error)

// exportHandler streams the artifact as a download, or answers 204 when there
// is nothing confirmed to render.
func exportHandler(run exportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sink := &responseSink{w: w}
		outcome, err := run(r, sink)
		if err != nil {
			if sink.written {
				// Headers are gone; only the log remains
				_ = errutil.Handle(r.Context(), err, "export failed after response started")
				return
			}
			handleError(w, r, err)
			return
		}
		if outcome == model.ExportSkipped {
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func exportImageHandler(uc SessionUseCase) http.HandlerFunc {
	return exportHandler(func(r *http.Request, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
		return uc.ExportImage(r.Context(), sessionID(r), sink)
	})
}

func exportDocumentHandler(uc SessionUseCase) http.HandlerFunc {
	return exportHandler(func(r *http.Request, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
		return uc.ExportDocument(r.Context(), sessionID(r), sink)
	})
}
