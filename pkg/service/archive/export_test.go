package archive

import "context"

// UploadFunc is a test double for the storage backend
type UploadFunc func(ctx context.Context, object, contentType string, data []byte) error

func (f UploadFunc) upload(ctx context.Context, object, contentType string, data []byte) error {
	return f(ctx, object, contentType, data)
}

func (f UploadFunc) close() error { return nil }

// NewForTest creates an Archive backed by fn
func NewForTest(fn UploadFunc, bucket string, opts ...Option) *Archive {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return newArchive(fn, bucket, cfg)
}
