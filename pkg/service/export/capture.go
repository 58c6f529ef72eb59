package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// MaxScale bounds the oversampling factor so a capture cannot allocate an
// arbitrarily large bitmap.
const MaxScale = 8

// CaptureOptions controls rasterisation
type CaptureOptions struct {
	Scale float64
	// Background, when set, is painted under the rendered target so the
	// bitmap is fully opaque.
	Background color.Color
}

// Capture rasterises target. Every failure, including a panic inside the
// renderer and a cancelled context, is reported as model.ErrCaptureFailed.
func Capture(ctx context.Context, target Target, opts CaptureOptions) (img *image.RGBA, err error) {
	if target == nil {
		return nil, goerr.Wrap(model.ErrCaptureFailed, "no render target")
	}
	if opts.Scale < 1 || opts.Scale > MaxScale {
		return nil, goerr.Wrap(model.ErrCaptureFailed, "capture scale out of range", goerr.V("scale", opts.Scale))
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = goerr.Wrap(model.ErrCaptureFailed, "renderer panicked", goerr.V("panic", fmt.Sprint(r)))
		}
	}()

	rendered, err := target.Render(ctx, opts.Scale)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrCaptureFailed, err), "failed to render target")
	}
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrCaptureFailed, err), "capture cancelled")
	}
	if rendered == nil || rendered.Bounds().Empty() {
		return nil, goerr.Wrap(model.ErrCaptureFailed, "target rendered nothing")
	}

	if opts.Background == nil {
		return rendered, nil
	}

	bounds := rendered.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(opts.Background), image.Point{}, draw.Src)
	draw.Draw(out, bounds, rendered, bounds.Min, draw.Over)
	return out, nil
}
