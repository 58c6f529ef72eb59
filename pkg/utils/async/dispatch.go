package async

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/utils/errutil"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine. The handler gets a fresh
// background context that keeps the caller's logger, so it outlives the
// request that started it. Errors and panics are logged and reported, never
// propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New(fmt.Sprintf("panic: %v", r)), "panic in async handler")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
