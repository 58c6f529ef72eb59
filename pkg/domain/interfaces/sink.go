package interfaces

import (
	"context"

	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// ArtifactSink saves an encoded export under its fixed file name
type ArtifactSink interface {
	Save(ctx context.Context, artifact *model.Artifact) error
}
