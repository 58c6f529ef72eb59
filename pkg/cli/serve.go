package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/cli/config"
	httpctrl "github.com/secmon-lab/perfectday/pkg/controller/http"
	"github.com/secmon-lab/perfectday/pkg/repository/memory"
	"github.com/secmon-lab/perfectday/pkg/service/export"
	"github.com/secmon-lab/perfectday/pkg/service/worker"
	"github.com/secmon-lab/perfectday/pkg/usecase"
	"github.com/secmon-lab/perfectday/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var appCfg config.App
	var archiveCfg config.Archive
	var source planSource

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PERFECTDAY_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Drop sessions idle for longer than this (0 keeps them until shutdown)",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("PERFECTDAY_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "session-sweep-interval",
			Usage:       "How often idle sessions are looked for",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("PERFECTDAY_SESSION_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, source.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application config")
			}
			logging.Default().Info("Application config loaded", "app", app)

			ucOpts, err := source.Configure(ctx, app)
			if err != nil {
				return err
			}
			ucOpts = append(ucOpts, usecase.WithExportPipeline(export.NewPipeline(app.PipelineOptions()...)))

			arc, err := archiveCfg.Configure(ctx, false)
			if err != nil {
				return err
			}
			if arc != nil {
				defer func() {
					if err := arc.Close(); err != nil {
						logging.Default().Error("failed to close archive", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithArchive(arc))
				logging.Default().Info("Export archive enabled", "archive", &archiveCfg)
			}

			repo := memory.New()
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, ucOpts...)

			var sweeper *worker.SessionSweeper
			if sessionTTL > 0 {
				sweeper = worker.NewSessionSweeper(repo, sessionTTL, sweepInterval)
				if err := sweeper.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start session sweeper")
				}
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithSession(uc.Session),
			}
			if uc.Generate != nil {
				httpOpts = append(httpOpts, httpctrl.WithGenerate(uc.Generate))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "generate", uc.Generate != nil)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if sweeper != nil {
					sweeper.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
