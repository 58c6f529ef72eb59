package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/perfectday/pkg/controller/http"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/repository/memory"
	"github.com/secmon-lab/perfectday/pkg/service/planner"
	"github.com/secmon-lab/perfectday/pkg/usecase"
)

type mockGenerator struct {
	generateFn func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error)
}

func (m *mockGenerator) Generate(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, coords)
	}
	return &model.GeneratedPlan{
		City:    "London",
		Weather: "15.0°C, Clear",
		Plan: []model.PlannedActivity{
			{Time: "03:00 PM", Activity: "Walk along the Thames"},
			{Time: "05:00 PM", Activity: "Afternoon tea"},
		},
		Suggestions: []model.SuggestionItem{
			{ID: "s1", Activity: "Museum"},
			{ID: "s2", Activity: "Theatre"},
		},
	}, nil
}

func (m *mockGenerator) RequestPlan(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	return m.Generate(ctx, coords)
}

type session struct {
	ID          string `json:"id"`
	City        string `json:"city"`
	Weather     string `json:"weather"`
	Plan        []item `json:"plan"`
	Suggestions []struct {
		ID       string `json:"id"`
		Activity string `json:"activity"`
	} `json:"suggestions"`
	Confirmed []item `json:"confirmed"`
}

type item struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

func newServer(gen *mockGenerator) *httpctrl.Server {
	uc := usecase.New(memory.New(), usecase.WithPlanRequester(gen))
	return httpctrl.New(
		httpctrl.WithGenerate(gen),
		httpctrl.WithSession(uc.Session),
	)
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			buf.WriteString(v)
		default:
			gt.NoError(t, json.NewEncoder(&buf).Encode(v)).Required()
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func TestHealth(t *testing.T) {
	w := do(t, newServer(&mockGenerator{}), http.MethodGet, "/health", nil)
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Equal("OK")
}

func TestGenerateEndpoint(t *testing.T) {
	t.Run("returns plan", func(t *testing.T) {
		var got model.Coordinates
		srv := newServer(&mockGenerator{
			generateFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				got = coords
				return (&mockGenerator{}).Generate(ctx, coords)
			},
		})

		w := do(t, srv, http.MethodPost, "/api/generate-perfect-day/", map[string]float64{"lat": 51.5, "lng": -0.12})
		gt.Number(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, got).Equal(model.Coordinates{Latitude: 51.5, Longitude: -0.12})
		gt.String(t, w.Header().Get("Content-Type")).Equal("application/json")

		resp := decode[map[string]any](t, w)
		gt.Value(t, resp["city"]).Equal("London")
		gt.Value(t, resp["weather"]).Equal("15.0°C, Clear")
		gt.Array(t, resp["plan"].([]any)).Length(2)
		gt.Array(t, resp["suggestions"].([]any)).Length(2)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		w := do(t, newServer(&mockGenerator{}), http.MethodPost, "/api/generate-perfect-day/", map[string]float64{"lat": 51.5})
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		w := do(t, newServer(&mockGenerator{}), http.MethodPost, "/api/generate-perfect-day/", `{"lat":"north","lng":1}`)
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed model output", func(t *testing.T) {
		srv := newServer(&mockGenerator{
			generateFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				return nil, fmt.Errorf("draft: %w", planner.ErrMalformedResponse)
			},
		})
		w := do(t, srv, http.MethodPost, "/api/generate-perfect-day/", map[string]float64{"lat": 1, "lng": 1})
		gt.Number(t, w.Code).Equal(http.StatusInternalServerError)
		gt.String(t, errorMessage(t, w)).Equal("AI failed to format JSON")
	})

	t.Run("lookup failure", func(t *testing.T) {
		srv := newServer(&mockGenerator{
			generateFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
				return nil, errors.Join(usecase.ErrLookupFailed, errors.New("timeout"))
			},
		})
		w := do(t, srv, http.MethodPost, "/api/generate-perfect-day/", map[string]float64{"lat": 1, "lng": 1})
		gt.Number(t, w.Code).Equal(http.StatusBadGateway)
	})
}

func TestSessionAPI(t *testing.T) {
	srv := newServer(&mockGenerator{})

	w := do(t, srv, http.MethodPost, "/api/sessions", nil)
	gt.Number(t, w.Code).Equal(http.StatusCreated)
	created := decode[session](t, w)
	gt.String(t, created.ID).NotEqual("")
	gt.Array(t, created.Plan).Length(0)
	base := "/api/sessions/" + created.ID

	t.Run("export before confirm has no content", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, base+"/export/image", nil)
		gt.Number(t, w.Code).Equal(http.StatusNoContent)
	})

	t.Run("location errors", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, base+"/generate", map[string]string{"location_error": "denied"})
		gt.Number(t, w.Code).Equal(http.StatusForbidden)

		w = do(t, srv, http.MethodPost, base+"/generate", map[string]string{"location_error": "unsupported"})
		gt.Number(t, w.Code).Equal(http.StatusUnprocessableEntity)

		w = do(t, srv, http.MethodPost, base+"/generate", map[string]string{"location_error": "exploded"})
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})

	w = do(t, srv, http.MethodPost, base+"/generate", map[string]float64{"lat": 51.5, "lng": -0.12})
	gt.Number(t, w.Code).Equal(http.StatusOK)
	generated := decode[session](t, w)
	gt.String(t, generated.City).Equal("London")
	gt.Array(t, generated.Plan).Length(2)
	gt.Array(t, generated.Suggestions).Length(2)
	gt.Bool(t, strings.HasPrefix(generated.Plan[0].ID, "plan-")).True()

	w = do(t, srv, http.MethodPost, base+"/plan", map[string]string{"id": "s1", "activity": "Museum"})
	gt.Number(t, w.Code).Equal(http.StatusCreated)
	added := decode[struct {
		Item    item    `json:"item"`
		Session session `json:"session"`
	}](t, w)
	gt.String(t, added.Item.Activity).Equal("Museum")
	gt.String(t, added.Item.Time).Equal("")
	gt.Array(t, added.Session.Plan).Length(3)
	gt.Array(t, added.Session.Suggestions).Length(1)

	w = do(t, srv, http.MethodPatch, base+"/plan/"+added.Item.ID, map[string]string{"field": "time", "value": "07:00 PM"})
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.String(t, decode[session](t, w).Plan[2].Time).Equal("07:00 PM")

	w = do(t, srv, http.MethodPatch, base+"/plan/"+added.Item.ID, map[string]string{"field": "id", "value": "x"})
	gt.Number(t, w.Code).Equal(http.StatusBadRequest)

	w = do(t, srv, http.MethodDelete, base+"/plan/"+generated.Plan[0].ID, nil)
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[session](t, w).Plan).Length(2)

	w = do(t, srv, http.MethodPost, base+"/confirm", nil)
	gt.Number(t, w.Code).Equal(http.StatusOK)
	confirmed := decode[struct {
		Confirmed []item `json:"confirmed"`
	}](t, w)
	gt.Array(t, confirmed.Confirmed).Length(2)
	gt.String(t, confirmed.Confirmed[1].Activity).Equal("Museum")

	t.Run("image export", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, base+"/export/image", nil)
		gt.Number(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Header().Get("Content-Type")).Equal("image/png")
		gt.String(t, w.Header().Get("Content-Disposition")).Contains("my-perfect-day.png")
		gt.Bool(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG"))).True()
	})

	t.Run("document export", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, base+"/export/document", nil)
		gt.Number(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Header().Get("Content-Type")).Equal("application/pdf")
		gt.String(t, w.Header().Get("Content-Disposition")).Contains("my-perfect-day.pdf")
		gt.Bool(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-"))).True()
	})

	w = do(t, srv, http.MethodDelete, base, nil)
	gt.Number(t, w.Code).Equal(http.StatusNoContent)

	w = do(t, srv, http.MethodGet, base, nil)
	gt.Number(t, w.Code).Equal(http.StatusNotFound)
	gt.String(t, errorMessage(t, w)).Equal("session not found")
}

func TestSessionAPI_IntakeFailure(t *testing.T) {
	srv := newServer(&mockGenerator{
		generateFn: func(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
			return nil, errors.New("backend down")
		},
	})

	w := do(t, srv, http.MethodPost, "/api/sessions", nil)
	created := decode[session](t, w)

	w = do(t, srv, http.MethodPost, "/api/sessions/"+created.ID+"/generate", map[string]float64{"lat": 1, "lng": 1})
	gt.Number(t, w.Code).Equal(http.StatusBadGateway)

	w = do(t, srv, http.MethodGet, "/api/sessions/"+created.ID, nil)
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[session](t, w).Plan).Length(0)
}
