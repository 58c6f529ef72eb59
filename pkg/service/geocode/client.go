package geocode

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
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "PerfectDayPlanner/1.0"
)

// client implements Service against a Nominatim server
type client struct {
	baseURL    string
	userAgent  string
	email      string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL points the client at another Nominatim instance
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithEmail adds the contact address Nominatim asks heavy users to send
func WithEmail(email string) Option {
	return func(c *client) {
		c.email = email
	}
}

// WithRateLimit limits outbound requests. The public instance allows one
// request per second.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a Nominatim reverse geocoder
func New(opts ...Option) Service {
	c := &client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) ReverseCity(ctx context.Context, coords model.Coordinates) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", goerr.Wrap(err, "rate limiter wait cancelled")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("format", "json")
	if c.email != "" {
		q.Set("email", c.email)
	}
	endpoint := c.baseURL + "/reverse?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create reverse geocode request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to send reverse geocode request",
			goerr.V(model.LatitudeKey, coords.Latitude),
			goerr.V(model.LongitudeKey, coords.Longitude))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("reverse geocode failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", goerr.Wrap(err, "failed to decode reverse geocode response")
	}

	return parsed.cityName(), nil
}
