package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/service/geocode"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Geo holds reverse geocoding configuration
type Geo struct {
	baseURL   string
	userAgent string
	email     string
	rate      float64
}

// Flags returns CLI flags for reverse geocoding
func (g *Geo) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "geocode-url",
			Usage:       "Nominatim base URL",
			Category:    "Geocoding",
			Value:       geocode.DefaultBaseURL,
			Sources:     cli.EnvVars("PERFECTDAY_GEOCODE_URL"),
			Destination: &g.baseURL,
		},
		&cli.StringFlag{
			Name:        "geocode-user-agent",
			Usage:       "User-Agent sent to Nominatim",
			Category:    "Geocoding",
			Value:       geocode.DefaultUserAgent,
			Sources:     cli.EnvVars("PERFECTDAY_GEOCODE_USER_AGENT"),
			Destination: &g.userAgent,
		},
		&cli.StringFlag{
			Name:        "geocode-email",
			Usage:       "Contact email sent to Nominatim",
			Category:    "Geocoding",
			Sources:     cli.EnvVars("PERFECTDAY_GEOCODE_EMAIL"),
			Destination: &g.email,
		},
		&cli.Float64Flag{
			Name:        "geocode-rate",
			Usage:       "Maximum Nominatim requests per second",
			Category:    "Geocoding",
			Value:       1,
			Sources:     cli.EnvVars("PERFECTDAY_GEOCODE_RATE"),
			Destination: &g.rate,
		},
	}
}

func (g *Geo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", g.baseURL),
		slog.String("user_agent", g.userAgent),
		slog.Bool("email", g.email != ""),
		slog.Float64("rate", g.rate),
	)
}

// Configure creates the reverse geocoder
func (g *Geo) Configure() (geocode.Service, error) {
	if g.rate <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "geocode rate must be positive", goerr.V("rate", g.rate))
	}

	opts := []geocode.Option{
		geocode.WithRateLimit(rate.Limit(g.rate), 1),
	}
	if g.baseURL != "" {
		opts = append(opts, geocode.WithBaseURL(g.baseURL))
	}
	if g.userAgent != "" {
		opts = append(opts, geocode.WithUserAgent(g.userAgent))
	}
	if g.email != "" {
		opts = append(opts, geocode.WithEmail(g.email))
	}
	return geocode.New(opts...), nil
}
