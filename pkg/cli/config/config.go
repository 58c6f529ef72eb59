package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/service/planner"
	"github.com/urfave/cli/v3"
)

// AppConfig is the optional TOML application file
type AppConfig struct {
	Planner PlannerConfig `toml:"planner"`
	Export  ExportConfig  `toml:"export"`
}

// PlannerConfig shapes what the model is asked for
type PlannerConfig struct {
	MinPlanItems    int    `toml:"min_plan_items"`
	MaxPlanItems    int    `toml:"max_plan_items"`
	SuggestionCount int    `toml:"suggestion_count"`
	Guidance        string `toml:"guidance"`
}

// ExportConfig sets the oversampling factors of exports
type ExportConfig struct {
	ImageScale    float64 `toml:"image_scale"`
	DocumentScale float64 `toml:"document_scale"`
}

// DefaultAppConfig is used when no file is given; a file only overrides the
// keys it sets.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Planner: PlannerConfig{
			MinPlanItems:    planner.DefaultMinPlanItems,
			MaxPlanItems:    planner.DefaultMaxPlanItems,
			SuggestionCount: planner.DefaultSuggestionCount,
		},
		Export: ExportConfig{
			ImageScale:    export.DefaultImageScale,
			DocumentScale: export.DefaultDocumentScale,
		},
	}
}

// Validate checks if the PlannerConfig is valid
func (p *PlannerConfig) Validate() error {
	if p.MinPlanItems < 1 {
		return goerr.Wrap(ErrInvalidConfig, "min_plan_items must be at least 1",
			goerr.V(SectionKey, "planner"), goerr.V("min_plan_items", p.MinPlanItems))
	}
	if p.MaxPlanItems < p.MinPlanItems {
		return goerr.Wrap(ErrInvalidConfig, "max_plan_items must not be less than min_plan_items",
			goerr.V(SectionKey, "planner"),
			goerr.V("min_plan_items", p.MinPlanItems),
			goerr.V("max_plan_items", p.MaxPlanItems))
	}
	if p.SuggestionCount < 0 {
		return goerr.Wrap(ErrInvalidConfig, "suggestion_count must not be negative",
			goerr.V(SectionKey, "planner"), goerr.V("suggestion_count", p.SuggestionCount))
	}
	return nil
}

// Validate checks if the ExportConfig is valid
func (e *ExportConfig) Validate() error {
	if e.ImageScale < export.DefaultImageScale || e.ImageScale > export.MaxScale {
		return goerr.Wrap(ErrInvalidConfig, "image_scale out of range",
			goerr.V(SectionKey, "export"), goerr.V("image_scale", e.ImageScale))
	}
	if e.DocumentScale < 1 || e.DocumentScale > export.MaxScale {
		return goerr.Wrap(ErrInvalidConfig, "document_scale out of range",
			goerr.V(SectionKey, "export"), goerr.V("document_scale", e.DocumentScale))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.Planner.Validate(); err != nil {
		return err
	}
	return a.Export.Validate()
}

// PlannerOptions converts the planner section to service options
func (a *AppConfig) PlannerOptions() []planner.Option {
	opts := []planner.Option{
		planner.WithPlanSize(a.Planner.MinPlanItems, a.Planner.MaxPlanItems),
		planner.WithSuggestionCount(a.Planner.SuggestionCount),
	}
	if a.Planner.Guidance != "" {
		opts = append(opts, planner.WithGuidance(a.Planner.Guidance))
	}
	return opts
}

// PipelineOptions converts the export section to pipeline options
func (a *AppConfig) PipelineOptions() []export.PipelineOption {
	return []export.PipelineOption{
		export.WithImageScale(a.Export.ImageScale),
		export.WithDocumentScale(a.Export.DocumentScale),
	}
}

func (a *AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("min_plan_items", a.Planner.MinPlanItems),
		slog.Int("max_plan_items", a.Planner.MaxPlanItems),
		slog.Int("suggestion_count", a.Planner.SuggestionCount),
		slog.Bool("guidance", a.Planner.Guidance != ""),
		slog.Float64("image_scale", a.Export.ImageScale),
		slog.Float64("document_scale", a.Export.DocumentScale),
	)
}

// LoadAppConfiguration reads a TOML file on top of the defaults
func LoadAppConfiguration(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	cfg := DefaultAppConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse config file", goerr.V(ConfigPathKey, path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V(ConfigPathKey, path))
	}
	return cfg, nil
}

// App holds the --config flag
type App struct {
	path string
}

// Flags returns CLI flags for the application file
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML application config file",
			Sources:     cli.EnvVars("PERFECTDAY_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the file, or returns the defaults when no file is set
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return DefaultAppConfig(), nil
	}
	return LoadAppConfiguration(a.path)
}
