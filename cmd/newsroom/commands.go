package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/newsroom/pkg/cmd"
	"github.com/dukex/newsroom/pkg/eventbus"
	"github.com/dukex/newsroom/pkg/log"
	"github.com/dukex/newsroom/pkg/notifications"
	"github.com/dukex/newsroom/pkg/scheduler"
	"github.com/dukex/newsroom/pkg/services"
)

var errCollectionRequired = errors.New("collection id is required")

func APICommand() *cli.Command {
	return &cli.Command{
		Name:   "api",
		Usage:  "Serve the editorial workflow API",
		Before: subcommandSettings,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			databaseFlag(),
			eventBusFlag(),
			releaseScheduleFlag(),
			&cli.IntFlag{
				Name:    "inbox-capacity",
				Usage:   "Notifications kept per user",
				Value:   notifications.DefaultCapacity,
				Sources: cli.EnvVars("INBOX_CAPACITY"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("api")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			defer setupTracing(ctx, command, logger)()

			logger.InfoContext(ctx, "Initializing Newsroom API")

			store, closeStore, err := openPersistence(ctx, command, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			bus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := bus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			posts := services.NewPosts(store, bus, newEngine(logger), logger)

			inbox := notifications.NewInbox(command.Int("inbox-capacity"))
			if err := notifications.NewSubscriber(inbox, logger).Register(bus); err != nil {
				return fmt.Errorf("failed to register notifications: %w", err)
			}

			if err := bus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to post events: %w", err)
			}

			if spec := command.String("release-schedule"); spec != "" {
				releases, err := scheduler.NewReleaseScheduler(spec, posts, logger)
				if err != nil {
					return err
				}

				if err := releases.Start(ctx); err != nil {
					return err
				}
				defer func() { _ = releases.Stop(context.Background()) }()
			}

			app := NewAPI(logger, posts, inbox).App()

			go func() {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					logger.ErrorContext(shutdownCtx, "Failed to shutdown API", "error", err)
				}
			}()

			port := command.Int("port")
			logger.InfoContext(ctx, "Newsroom API listening", "port", port)

			return app.Listen(fmt.Sprintf(":%d", port))
		},
	}
}

func SchedulerCommand() *cli.Command {
	return &cli.Command{
		Name:   "scheduler",
		Usage:  "Run only the scheduled-release loop",
		Before: subcommandSettings,
		Flags: []cli.Flag{
			databaseFlag(),
			eventBusFlag(),
			releaseScheduleFlag(),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("scheduler")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			defer setupTracing(ctx, command, logger)()

			store, closeStore, err := openPersistence(ctx, command, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			bus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}
			defer func() { _ = bus.Close() }()

			posts := services.NewPosts(store, bus, newEngine(logger), logger)

			releases, err := scheduler.NewReleaseScheduler(command.String("release-schedule"), posts, logger)
			if err != nil {
				return err
			}

			if err := releases.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()

			return releases.Stop(context.Background())
		},
	}
}

func ReleaseCommand() *cli.Command {
	return &cli.Command{
		Name:   "release",
		Usage:  "Publish every scheduled post whose time has come, once",
		Before: subcommandSettings,
		Flags: []cli.Flag{
			databaseFlag(),
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus to announce releases on (kafka); empty publishes nothing",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Release a single collection instead of all of them",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("release")

			store, closeStore, err := openPersistence(ctx, command, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			var publisher eventbus.EventPublisher

			if provider := command.String("event-bus"); provider == "kafka" {
				bus, err := cmd.NewEventBus(provider, logger)
				if err != nil {
					return err
				}
				defer func() { _ = bus.Close() }()

				publisher = bus
			}

			posts := services.NewPosts(store, publisher, newEngine(logger), logger)

			if collection := command.String("collection"); collection != "" {
				released, err := posts.ReleaseDue(ctx, collection)
				if err != nil {
					return err
				}

				logger.InfoContext(ctx, "release finished", "collection_id", collection, "released", len(released))

				return nil
			}

			total, err := posts.ReleaseAll(ctx)
			logger.InfoContext(ctx, "release finished", "released", total)

			return err
		},
	}
}

func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Validate a collection document and store it",
		ArgsUsage: "<document.json>",
		Before:    subcommandSettings,
		Flags: []cli.Flag{
			databaseFlag(),
			&cli.StringFlag{
				Name:     "collection",
				Usage:    "Collection id to store the document under",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("import")

			collection := command.String("collection")
			if collection == "" {
				return errCollectionRequired
			}

			path := command.Args().First()
			if path == "" {
				return errors.New("path to a collection document is required")
			}

			document, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			store, closeStore, err := openPersistence(ctx, command, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			posts := services.NewPosts(store, nil, newEngine(logger), logger)

			count, err := posts.Import(ctx, collection, document)
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "collection imported", "collection_id", collection, "posts", count)

			return nil
		},
	}
}
