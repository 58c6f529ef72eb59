package export

import (
	"context"
	"errors"
	"image/color"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/domain/types"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
)

const (
	DefaultImageScale    = 2
	DefaultDocumentScale = 2
)

// Pipeline turns a render target into a saved artifact: capture, encode, save.
// It never retries.
type Pipeline struct {
	imageScale    float64
	documentScale float64
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithImageScale sets the oversampling factor of image exports. Values below
// the default are raised to it.
func WithImageScale(scale float64) PipelineOption {
	return func(p *Pipeline) {
		p.imageScale = max(scale, DefaultImageScale)
	}
}

// WithDocumentScale sets the oversampling factor of document exports
func WithDocumentScale(scale float64) PipelineOption {
	return func(p *Pipeline) {
		p.documentScale = scale
	}
}

// NewPipeline creates an export pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		imageScale:    DefaultImageScale,
		documentScale: DefaultDocumentScale,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExportImage saves target as my-perfect-day.png on an opaque white
// background. A nil target is skipped without error.
func (p *Pipeline) ExportImage(ctx context.Context, target Target, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
	if target == nil {
		return model.ExportSkipped, nil
	}

	img, err := Capture(ctx, target, CaptureOptions{Scale: p.imageScale, Background: color.White})
	if err != nil {
		return "", err
	}
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return p.save(ctx, sink, &model.Artifact{Kind: types.ExportKindImage, Data: data})
}

// ExportDocument saves target as my-perfect-day.pdf, one A4 portrait page.
// A nil target is skipped without error.
func (p *Pipeline) ExportDocument(ctx context.Context, target Target, sink interfaces.ArtifactSink) (model.ExportOutcome, error) {
	if target == nil {
		return model.ExportSkipped, nil
	}

	img, err := Capture(ctx, target, CaptureOptions{Scale: p.documentScale})
	if err != nil {
		return "", err
	}
	data, err := EncodePDF(img)
	if err != nil {
		return "", err
	}
	return p.save(ctx, sink, &model.Artifact{Kind: types.ExportKindDocument, Data: data})
}

func (p *Pipeline) save(ctx context.Context, sink interfaces.ArtifactSink, artifact *model.Artifact) (model.ExportOutcome, error) {
	if sink == nil {
		return "", goerr.Wrap(model.ErrEncodeFailed, "no artifact sink", goerr.V(model.ExportKey, artifact.Kind))
	}
	if err := sink.Save(ctx, artifact); err != nil {
		return "", goerr.Wrap(errors.Join(model.ErrEncodeFailed, err), "failed to save artifact",
			goerr.V(model.ExportKey, artifact.Kind))
	}

	logging.From(ctx).Info("export saved",
		slog.String("file", artifact.FileName()),
		slog.Int("bytes", len(artifact.Data)),
	)
	return model.ExportSaved, nil
}
