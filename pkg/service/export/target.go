package export

import (
	"context"
	"image"
)

// Target is a visual region that can be rasterised. Render draws onto a
// transparent canvas whose size is the layout size multiplied by scale.
// Targets carry no remote sub-resources, so rendering never waits on a fetch.
type Target interface {
	Render(ctx context.Context, scale float64) (*image.RGBA, error)
}
