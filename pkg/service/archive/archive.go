package archive

import (
	"context"
	"log/slog"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/interfaces"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"github.com/secmon-lab/perfectday/pkg/utils/async"
	"github.com/secmon-lab/perfectday/pkg/utils/errutil"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"google.golang.org/api/option"
)

// uploader stores one object. It is satisfied by the GCS backend and by test
// doubles.
type uploader interface {
	upload(ctx context.Context, object, contentType string, data []byte) error
	close() error
}

// Archive copies saved exports into a Cloud Storage bucket
type Archive struct {
	backend    uploader
	bucket     string
	prefix     string
	background bool
}

// Option configures an Archive
type Option func(*config)

type config struct {
	prefix      string
	endpoint    string
	noAuth      bool
	synchronous bool
}

// WithPrefix sets the object name prefix, e.g. "exports/"
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithEndpoint points the client at a non-default storage endpoint such as
// an emulator. Authentication is disabled for such endpoints.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
		c.noAuth = true
	}
}

// WithSynchronous makes Save wait for the upload. Short-lived processes use
// it so uploads are not lost on exit. Failures are still only logged.
func WithSynchronous() Option {
	return func(c *config) {
		c.synchronous = true
	}
}

// New creates an Archive writing to bucket with application default credentials
func New(ctx context.Context, bucket string, opts ...Option) (*Archive, error) {
	if bucket == "" {
		return nil, goerr.New("archive bucket is required")
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var clientOpts []option.ClientOption
	if cfg.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.endpoint))
	}
	if cfg.noAuth {
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return newArchive(&gcsBackend{client: client, bucket: bucket}, bucket, cfg), nil
}

func newArchive(backend uploader, bucket string, cfg config) *Archive {
	return &Archive{
		backend:    backend,
		bucket:     bucket,
		prefix:     cfg.prefix,
		background: !cfg.synchronous,
	}
}

// Close releases the storage client
func (a *Archive) Close() error {
	return a.backend.close()
}

// ObjectName is where an artifact of a session is stored
func (a *Archive) ObjectName(sessionID model.SessionID, artifact *model.Artifact) string {
	return a.prefix + path.Join(string(sessionID), artifact.FileName())
}

// SinkFor returns a sink that archives artifacts of one session
func (a *Archive) SinkFor(sessionID model.SessionID) interfaces.ArtifactSink {
	return &sink{archive: a, sessionID: sessionID}
}

type sink struct {
	archive   *Archive
	sessionID model.SessionID
}

// Save never fails: the archive copy is best effort.
func (s *sink) Save(ctx context.Context, artifact *model.Artifact) error {
	a := s.archive
	object := a.ObjectName(s.sessionID, artifact)
	data := append([]byte(nil), artifact.Data...)
	contentType := artifact.ContentType()

	run := func(ctx context.Context) error {
		if err := a.backend.upload(ctx, object, contentType, data); err != nil {
			return goerr.Wrap(err, "failed to archive export",
				goerr.V("bucket", a.bucket),
				goerr.V("object", object),
				goerr.V(model.SessionIDKey, s.sessionID))
		}
		logging.From(ctx).Info("export archived",
			slog.String("bucket", a.bucket),
			slog.String("object", object))
		return nil
	}

	if a.background {
		async.Dispatch(ctx, run)
		return nil
	}
	_ = errutil.Handle(ctx, run(ctx), "archive upload failed")
	return nil
}

type gcsBackend struct {
	client *storage.Client
	bucket string
}

func (g *gcsBackend) upload(ctx context.Context, object, contentType string, data []byte) error {
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "gcs write failed")
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "gcs close failed")
	}
	return nil
}

func (g *gcsBackend) close() error {
	return g.client.Close()
}
