package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/orbithq/orbit/pkg/cmd"
	"github.com/orbithq/orbit/pkg/log"
	"github.com/orbithq/orbit/pkg/otelhelper"
	"github.com/orbithq/orbit/pkg/service"
)

const defaultPort = 9094

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("console")

	command := &cli.Command{
		Name:                  "orbit-console",
		Usage:                 "Serve the Orbit outreach workflow console",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the console API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Snapshot storage URL (file://, redis://, postgres://)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Base URL of the outreach backend (people, workflows, actions)",
				Value:   "http://127.0.0.1:8000",
				Sources: cli.EnvVars("BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Orbit console")

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var serviceOpts []service.Option

			if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
				tracer, err := otelhelper.NewTracer(ctx, "orbit-console")
				if err != nil {
					logger.WarnContext(ctx, "Failed to initialize tracer, continuing without tracing", "error", err)
				} else {
					serviceOpts = append(serviceOpts, service.WithTracer(tracer))
				}
			}

			console := NewConsole(
				logger,
				persistence,
				eventBus,
				command.String("backend-url"),
				serviceOpts...,
			)

			console.Hydrate(ctx)
			console.StartIngestor(ctx)

			if err := console.Start(ctx, command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start console API", "error", err)
			}

			return nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Run(ctx, os.Args); err != nil {
		panic(err)
	}
}
