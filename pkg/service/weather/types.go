package weather

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

const (
	ConditionClear       = "Clear"
	ConditionCloudyRainy = "Cloudy/Rainy"
)

// Service reports the current weather at a position
type Service interface {
	Current(ctx context.Context, coords model.Coordinates) (*Current, error)
}

// Current is a simplified current-weather observation
type Current struct {
	Temperature float64
	Code        int
}

// Condition maps the WMO weather code onto a two-way summary: codes below 3
// (clear sky, mainly clear, partly cloudy) count as clear.
func (c *Current) Condition() string {
	if c.Code < 3 {
		return ConditionClear
	}
	return ConditionCloudyRainy
}

// String renders the observation as shown next to the city, e.g. "15.0°C, Clear"
func (c *Current) String() string {
	return fmt.Sprintf("%s°C, %s", formatTemperature(c.Temperature), c.Condition())
}

// formatTemperature keeps at least one decimal digit so whole degrees read
// "15.0" rather than "15".
func formatTemperature(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}
