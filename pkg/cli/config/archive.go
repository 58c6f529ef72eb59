package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/service/archive"
	"github.com/urfave/cli/v3"
)

// Archive holds Cloud Storage export archive configuration
type Archive struct {
	bucket   string
	prefix   string
	endpoint string
}

// Flags returns CLI flags for the export archive
func (a *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket that receives a copy of every export",
			Category:    "Archive",
			Sources:     cli.EnvVars("PERFECTDAY_ARCHIVE_BUCKET"),
			Destination: &a.bucket,
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "Object name prefix for archived exports",
			Category:    "Archive",
			Sources:     cli.EnvVars("PERFECTDAY_ARCHIVE_PREFIX"),
			Destination: &a.prefix,
		},
		&cli.StringFlag{
			Name:        "archive-endpoint",
			Usage:       "Cloud Storage endpoint override, e.g. an emulator",
			Category:    "Archive",
			Sources:     cli.EnvVars("PERFECTDAY_ARCHIVE_ENDPOINT"),
			Destination: &a.endpoint,
		},
	}
}

// IsConfigured reports whether a bucket is set
func (a *Archive) IsConfigured() bool {
	return a.bucket != ""
}

func (a *Archive) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", a.bucket),
		slog.String("prefix", a.prefix),
		slog.String("endpoint", a.endpoint),
	)
}

// Configure creates the archive, or returns nil when no bucket is set.
// Synchronous archives wait for each upload.
func (a *Archive) Configure(ctx context.Context, synchronous bool) (*archive.Archive, error) {
	if a.bucket == "" {
		return nil, nil
	}

	opts := []archive.Option{archive.WithPrefix(a.prefix)}
	if a.endpoint != "" {
		opts = append(opts, archive.WithEndpoint(a.endpoint))
	}
	if synchronous {
		opts = append(opts, archive.WithSynchronous())
	}

	arc, err := archive.New(ctx, a.bucket, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure export archive")
	}
	return arc, nil
}
