package config

import (
	"log/slog"

	"github.com/secmon-lab/perfectday/pkg/service/weather"
	"github.com/urfave/cli/v3"
)

// Weather holds current-weather lookup configuration
type Weather struct {
	baseURL string
}

// Flags returns CLI flags for the weather lookup
func (w *Weather) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "weather-url",
			Usage:       "Open-Meteo base URL",
			Category:    "Weather",
			Value:       weather.DefaultBaseURL,
			Sources:     cli.EnvVars("PERFECTDAY_WEATHER_URL"),
			Destination: &w.baseURL,
		},
	}
}

func (w *Weather) LogValue() slog.Value {
	return slog.GroupValue(slog.String("base_url", w.baseURL))
}

// Configure creates the weather client
func (w *Weather) Configure() weather.Service {
	if w.baseURL == "" {
		return weather.New()
	}
	return weather.New(weather.WithBaseURL(w.baseURL))
}
