package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/utils/safe"
)

// FileSink writes artifacts into a directory under their fixed file names.
// An existing file of the same name is replaced.
type FileSink struct {
	dir string
}

var _ interfaces.ArtifactSink = (*FileSink)(nil)

// NewFileSink creates a sink writing into dir, creating it when missing
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}
	return &FileSink{dir: dir}, nil
}

// Path returns where an artifact of this name is written
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileSink) Save(ctx context.Context, artifact *model.Artifact) error {
	path := s.Path(artifact.FileName())

	// Write next to the target and rename so a failed write never leaves a
	// truncated artifact behind.
	f, err := os.CreateTemp(s.dir, "."+artifact.FileName()+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", s.dir))
	}
	tmp := f.Name()

	if _, err := f.Write(artifact.Data); err != nil {
		safe.Close(ctx, f)
		safe.Remove(ctx, tmp)
		return goerr.Wrap(err, "failed to write artifact", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		safe.Remove(ctx, tmp)
		return goerr.Wrap(err, "failed to close artifact", goerr.V("path", path))
	}
	if err := os.Rename(tmp, path); err != nil {
		safe.Remove(ctx, tmp)
		return goerr.Wrap(err, "failed to move artifact into place", goerr.V("path", path))
	}
	return nil
}

// MultiSink saves to every sink in order and stops at the first failure
type MultiSink []interfaces.ArtifactSink

func (m MultiSink) Save(ctx context.Context, artifact *model.Artifact) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Save(ctx, artifact); err != nil {
			return err
		}
	}
	return nil
}

// MemorySink keeps the last artifact saved
type MemorySink struct {
	Artifact *model.Artifact
}

func (m *MemorySink) Save(ctx context.Context, artifact *model.Artifact) error {
	m.Artifact = artifact
	return nil
}
