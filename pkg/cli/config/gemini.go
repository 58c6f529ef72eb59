package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini selects the Vertex AI project that drafts itineraries
type Gemini struct {
	projectID string
	location  string
	model     string
}

func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project that drafts itineraries with Gemini; unset disables in-process generation",
			Category:    "Gemini",
			Sources:     cli.EnvVars("PERFECTDAY_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI region of the Gemini endpoint",
			Category:    "Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("PERFECTDAY_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name; empty uses the client default",
			Category:    "Gemini",
			Sources:     cli.EnvVars("PERFECTDAY_GEMINI_MODEL"),
			Destination: &g.model,
		},
	}
}

// IsConfigured reports whether itineraries can be drafted in-process
func (g *Gemini) IsConfigured() bool {
	return g.projectID != ""
}

func (g *Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("model", g.model),
	)
}

// Configure returns the LLM client the planner drafts itineraries with, or
// nil without a project. Callers then need a remote backend for plans.
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}
	if g.location == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "gemini location is required with a project",
			goerr.V(SectionKey, "gemini"), goerr.V("project_id", g.projectID))
	}

	var opts []gemini.Option
	if g.model != "" {
		opts = append(opts, gemini.WithModel(g.model))
	}

	client, err := gemini.New(ctx, g.projectID, g.location, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "itinerary planner unavailable",
			goerr.V(SectionKey, "gemini"),
			goerr.V("project_id", g.projectID),
			goerr.V("location", g.location),
			goerr.V("model", g.model))
	}

	return client, nil
}
