package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/utils/safe"
)

// GeneratePath is the plan generation endpoint of a perfectday backend
const GeneratePath = "/api/generate-perfect-day/"

type generateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type generateResponse struct {
	City    string `json:"city"`
	Weather string `json:"weather"`
	Plan    []struct {
		Time     string `json:"time"`
		Activity string `json:"activity"`
	} `json:"plan"`
	Suggestions []struct {
		ID       string `json:"id"`
		Activity string `json:"activity"`
	} `json:"suggestions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client requests plans from a remote backend
type Client struct {
	endpoint   string
	httpClient *http.Client
}

var _ interfaces.PlanRequester = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the backend at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("backend URL is required")
	}

	c := &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + GeneratePath,
		// Plan generation waits on an LLM round trip
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RequestPlan posts the coordinates and decodes the generated plan
func (c *Client) RequestPlan(ctx context.Context, coords model.Coordinates) (*model.GeneratedPlan, error) {
	body, err := json.Marshal(generateRequest{Lat: coords.Latitude, Lng: coords.Longitude})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send generate request", goerr.V("endpoint", c.endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp errorResponse
		_ = json.Unmarshal(raw, &errResp)
		return nil, goerr.New("generate request failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("error", errResp.Error),
			goerr.V("endpoint", c.endpoint))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode generate response", goerr.V("endpoint", c.endpoint))
	}

	plan := &model.GeneratedPlan{
		City:        parsed.City,
		Weather:     parsed.Weather,
		Plan:        make([]model.PlannedActivity, 0, len(parsed.Plan)),
		Suggestions: make([]model.SuggestionItem, 0, len(parsed.Suggestions)),
	}
	for _, p := range parsed.Plan {
		plan.Plan = append(plan.Plan, model.PlannedActivity{Time: p.Time, Activity: p.Activity})
	}
	for _, s := range parsed.Suggestions {
		plan.Suggestions = append(plan.Suggestions, model.SuggestionItem{ID: model.SuggestionID(s.ID), Activity: s.Activity})
	}

	return plan, nil
}
