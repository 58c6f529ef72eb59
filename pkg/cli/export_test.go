package cli

import (
	"context"
	"io"

	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/usecase"
)

// RunPlanForTest drives one plan session without CLI flag parsing
func RunPlanForTest(ctx context.Context, uc *usecase.SessionUseCase, location interfaces.LocationResolver, adds []string, times []string, sink *export.FileSink, w io.Writer) error {
	edits := make([]timeEdit, 0, len(times))
	for _, s := range times {
		e, err := parseTimeEdit(s)
		if err != nil {
			return err
		}
		edits = append(edits, e)
	}
	return runPlan(ctx, uc, location, adds, edits, sink, w)
}

func PrintItineraryForTest(w io.Writer, meta model.LocationMeta, items []model.ItineraryItem) {
	printItinerary(w, meta, items)
}

var (
	ErrUnknownSuggestion = errUnknownSuggestion
	ErrInvalidTimeEdit   = errInvalidTimeEdit
	ErrNoPlanSource      = errNoPlanSource
)
