package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
)

// Handle logs err with its goerr values and stack and forwards it to Sentry
// when a Sentry client is configured. It returns err unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			slog.String("error", err.Error()),
			slog.Any("values", ge.Values()),
			slog.Any("stack", ge.Stacks()),
		)
	} else {
		logger.Error(msg, slog.String("error", err.Error()))
	}

	report(ctx, err, msg)
	return err
}

// HandleHTTP logs err and writes a JSON error body {"error": publicMsg}.
// Only 5xx responses are reported to Sentry; 4xx are logged at warn level.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, publicMsg string) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		_ = Handle(ctx, err, "HTTP error")
	} else {
		logging.From(ctx).Warn("HTTP client error",
			slog.Int("status", statusCode),
			slog.String("error", err.Error()),
		)
	}

	if publicMsg == "" {
		publicMsg = http.StatusText(statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": publicMsg}); encErr != nil {
		logging.From(ctx).Error("failed to write error response", slog.Any("error", encErr))
	}
}

func report(ctx context.Context, err error, msg string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		var ge *goerr.Error
		if errors.As(err, &ge) {
			if values := ge.Values(); len(values) > 0 {
				sc := sentry.Context{}
				for k, v := range values {
					sc[k] = v
				}
				scope.SetContext("goerr", sc)
			}
		}
		hub.CaptureException(err)
	})
}
