package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/cli/config"
	"github.com/secmon-lab/perfectday/pkg/service/intake"
	"github.com/secmon-lab/perfectday/pkg/service/planner"
	"github.com/secmon-lab/perfectday/pkg/usecase"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var errNoPlanSource = goerr.New("either --gemini-project or --backend-url is required")

// planSource decides where plans come from. In-process generation needs
// Gemini; a backend URL sends intake requests to another perfectday server
// instead.
type planSource struct {
	gemini     config.Gemini
	geo        config.Geo
	weather    config.Weather
	backendURL string
}

func (p *planSource) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of a remote plan generation backend",
			Sources:     cli.EnvVars("PERFECTDAY_BACKEND_URL"),
			Destination: &p.backendURL,
		},
	}
	flags = append(flags, p.gemini.Flags()...)
	flags = append(flags, p.geo.Flags()...)
	flags = append(flags, p.weather.Flags()...)
	return flags
}

func (p *planSource) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend_url", p.backendURL),
		slog.Any("gemini", &p.gemini),
		slog.Any("geo", &p.geo),
		slog.Any("weather", &p.weather),
	)
}

// Configure returns the use case options for the configured source. When
// both are set, sessions use the backend and the generate endpoint is still
// served in-process.
func (p *planSource) Configure(ctx context.Context, appCfg *config.AppConfig) ([]usecase.Option, error) {
	var opts []usecase.Option

	if p.gemini.IsConfigured() {
		llmClient, err := p.gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		plannerSvc, err := planner.New(llmClient, appCfg.PlannerOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create planner")
		}
		geocoder, err := p.geo.Configure()
		if err != nil {
			return nil, err
		}

		gen := usecase.NewGenerateUseCase(geocoder, p.weather.Configure(), plannerSvc)
		opts = append(opts, usecase.WithGenerate(gen))
		logging.From(ctx).Info("In-process plan generation enabled", "gemini", &p.gemini)
	}

	if p.backendURL != "" {
		client, err := intake.New(p.backendURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create intake client")
		}
		opts = append(opts, usecase.WithPlanRequester(client))
		logging.From(ctx).Info("Remote plan backend enabled", "backend_url", p.backendURL)
	}

	if len(opts) == 0 {
		return nil, errNoPlanSource
	}

	return opts, nil
}
