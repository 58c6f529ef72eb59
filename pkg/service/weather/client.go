package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/utils/safe"
)

// DefaultBaseURL is the public Open-Meteo API
const DefaultBaseURL = "https://api.open-meteo.com"

// client implements Service against the Open-Meteo forecast API
type client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL points the client at another Open-Meteo deployment
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates an Open-Meteo weather client
func New(opts ...Option) Service {
	c := &client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Current(ctx context.Context, coords model.Coordinates) (*Current, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	endpoint := c.baseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create forecast request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send forecast request",
			goerr.V(model.LatitudeKey, coords.Latitude),
			goerr.V(model.LongitudeKey, coords.Longitude))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("forecast request failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var parsed forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode forecast response")
	}
	if parsed.CurrentWeather == nil {
		return nil, goerr.New("forecast response has no current_weather")
	}

	return &Current{
		Temperature: parsed.CurrentWeather.Temperature,
		Code:        parsed.CurrentWeather.WeatherCode,
	}, nil
}
