// Package main provides the newsroom command: the editorial workflow API, the
// scheduled-release loop, and collection maintenance commands.
package main

import (
	"context"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/newsroom/pkg/clock"
	"github.com/dukex/newsroom/pkg/cmd"
	"github.com/dukex/newsroom/pkg/log"
	"github.com/dukex/newsroom/pkg/otelhelper"
	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/scheduler"
	"github.com/dukex/newsroom/pkg/workflow"
)

const defaultPort = 9091

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database-url",
		Usage:   "Collection storage URL (file path, postgres://, redis://)",
		Value:   "file://./data",
		Sources: cli.EnvVars("DATABASE_URL"),
	}
}

func releaseScheduleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "release-schedule",
		Usage:   "Cron expression for releasing scheduled posts; empty disables the loop in api",
		Value:   scheduler.DefaultSpec,
		Sources: cli.EnvVars("RELEASE_SCHEDULE"),
	}
}

func eventBusFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "event-bus",
		Usage:   "Event bus type (gochannel, kafka)",
		Value:   "gochannel",
		Sources: cli.EnvVars("EVENT_BUS_TYPE"),
	}
}

func main() {
	command := &cli.Command{
		Name:                  "newsroom",
		Usage:                 "Editorial workflow for news posts",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Optional YAML settings file; flags and environment take precedence",
				Sources: cli.EnvVars("NEWSROOM_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka brokers for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			ctx, err := loadSettings(ctx, command)
			if err != nil {
				return ctx, err
			}

			log.Setup(command.String("log-level"))

			if brokers := command.String("kafka-brokers"); brokers != "" {
				if err := os.Setenv("KAFKA_BROKERS", brokers); err != nil {
					return ctx, err
				}
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			APICommand(),
			SchedulerCommand(),
			ReleaseCommand(),
			ImportCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		slog.Error("newsroom failed", "error", err)
		os.Exit(1)
	}
}

// setupTracing installs the OTLP exporter when enabled and returns its shutdown func.
func setupTracing(ctx context.Context, command *cli.Command, logger *slog.Logger) func() {
	if !command.Bool("otel-enabled") {
		return func() {}
	}

	_, shutdown, err := otelhelper.NewTracer(ctx, "newsroom")
	if err != nil {
		logger.WarnContext(ctx, "tracing disabled", "error", err)

		return func() {}
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}
}

func openPersistence(ctx context.Context, command *cli.Command, logger *slog.Logger) (persistence.Persistence, func(), error) {
	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, nil, err
	}

	return p, func() {
		if err := p.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}, nil
}

func newEngine(logger *slog.Logger) *workflow.Engine {
	return workflow.NewEngine(clock.System(), workflow.WithLogger(logger.With("module", "workflow")))
}
