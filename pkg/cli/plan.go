package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/cli/config"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
	"github.com/secmon-lab/perfectday/pkg/repository/memory"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/usecase"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var (
	errUnknownSuggestion = goerr.New("unknown suggestion")
	errInvalidTimeEdit   = goerr.New("invalid time edit, want <item number>=<time>")
)

// timeEdit sets the time of the n-th plan item, counting from 1
type timeEdit struct {
	index int
	value string
}

func parseTimeEdit(s string) (timeEdit, error) {
	idx, value, ok := strings.Cut(s, "=")
	if !ok {
		return timeEdit{}, goerr.Wrap(errInvalidTimeEdit, "missing '='", goerr.V("edit", s))
	}
	n, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || n < 1 {
		return timeEdit{}, goerr.Wrap(errInvalidTimeEdit, "bad item number", goerr.V("edit", s))
	}
	return timeEdit{index: n, value: value}, nil
}

func cmdPlan() *cli.Command {
	var (
		lat, lng   float64
		adds       []string
		times      []string
		outputDir  string
		appCfg     config.App
		archiveCfg config.Archive
		source     planSource
	)

	flags := []cli.Flag{
		&cli.Float64Flag{
			Name:        "lat",
			Usage:       "Latitude of the current position",
			Destination: &lat,
		},
		&cli.Float64Flag{
			Name:        "lng",
			Usage:       "Longitude of the current position",
			Destination: &lng,
		},
		&cli.StringSliceFlag{
			Name:        "add",
			Usage:       "Suggestion id to add to the plan, repeatable",
			Destination: &adds,
		},
		&cli.StringSliceFlag{
			Name:        "time",
			Usage:       "Set the time of a plan item as <item number>=<time>, repeatable",
			Destination: &times,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory the exported itinerary is written to",
			Value:       ".",
			Sources:     cli.EnvVars("PERFECTDAY_OUTPUT"),
			Destination: &outputDir,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, source.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "plan",
		Aliases: []string{"p"},
		Usage:   "Generate, confirm and export a plan for one position",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			edits := make([]timeEdit, 0, len(times))
			for _, s := range times {
				e, err := parseTimeEdit(s)
				if err != nil {
					return err
				}
				edits = append(edits, e)
			}

			location := usecase.StaticLocation{}
			if c.IsSet("lat") && c.IsSet("lng") {
				location.Coordinates = &model.Coordinates{Latitude: lat, Longitude: lng}
			}

			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application config")
			}

			ucOpts, err := source.Configure(ctx, app)
			if err != nil {
				return err
			}
			ucOpts = append(ucOpts, usecase.WithExportPipeline(export.NewPipeline(app.PipelineOptions()...)))

			arc, err := archiveCfg.Configure(ctx, true)
			if err != nil {
				return err
			}
			if arc != nil {
				defer func() {
					if err := arc.Close(); err != nil {
						logging.Default().Error("failed to close archive", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithArchive(arc))
			}

			sink, err := export.NewFileSink(outputDir)
			if err != nil {
				return err
			}

			uc := usecase.New(memory.New(), ucOpts...)
			return runPlan(ctx, uc.Session, location, adds, edits, sink, os.Stdout)
		},
	}
}

func runPlan(ctx context.Context, uc *usecase.SessionUseCase, location interfaces.LocationResolver, adds []string, edits []timeEdit, sink *export.FileSink, w io.Writer) error {
	state, err := uc.CreateSession(ctx)
	if err != nil {
		return err
	}
	id := state.ID

	state, err = uc.Generate(ctx, id, location)
	if err != nil {
		return err
	}

	for _, add := range adds {
		suggestion, ok := findSuggestion(state.Suggestions, model.SuggestionID(add))
		if !ok {
			return goerr.Wrap(errUnknownSuggestion, "cannot add to plan", goerr.V("suggestion_id", add))
		}
		if _, state, err = uc.AddToPlan(ctx, id, suggestion); err != nil {
			return err
		}
	}

	for _, e := range edits {
		if e.index > len(state.Plan) {
			return goerr.Wrap(errInvalidTimeEdit, "no such plan item",
				goerr.V("item", e.index), goerr.V("plan_size", len(state.Plan)))
		}
		item := state.Plan[e.index-1]
		if state, err = uc.UpdatePlanItem(ctx, id, item.ID, types.ItemFieldTime.String(), e.value); err != nil {
			return err
		}
	}

	confirmed, err := uc.Confirm(ctx, id)
	if err != nil {
		return err
	}
	printItinerary(w, state.Location, confirmed)

	for _, kind := range []types.ExportKind{types.ExportKindImage, types.ExportKindDocument} {
		var outcome model.ExportOutcome
		if kind == types.ExportKindImage {
			outcome, err = uc.ExportImage(ctx, id, sink)
		} else {
			outcome, err = uc.ExportDocument(ctx, id, sink)
		}
		if err != nil {
			return err
		}
		if outcome == model.ExportSaved {
			_, _ = fmt.Fprintf(w, "%s %s\n", color.GreenString("saved"), sink.Path(kind.FileName()))
		}
	}

	return nil
}

func findSuggestion(suggestions []model.SuggestionItem, id model.SuggestionID) (model.SuggestionItem, bool) {
	for _, s := range suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return model.SuggestionItem{}, false
}

func printItinerary(w io.Writer, meta model.LocationMeta, items []model.ItineraryItem) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(w, "Your Perfect Day in %s\n", meta.City)
	if meta.Weather != "" {
		_, _ = fmt.Fprintf(w, "%s\n", color.HiBlackString(meta.Weather))
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, color.YellowString("(empty plan, nothing to export)"))
		return
	}
	for _, item := range items {
		t := item.Time
		if t == "" {
			t = "--:--"
		}
		_, _ = fmt.Fprintf(w, "  %s  %s\n", color.CyanString("%-8s", t), item.Activity)
	}
}
