package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/newsroom/pkg/config"
)

type settingsKey struct{}

// loadSettings reads the --config file, fills the root flags it covers, and keeps the
// file in the context for subcommands.
func loadSettings(ctx context.Context, command *cli.Command) (context.Context, error) {
	path := command.String("config")
	if path == "" {
		return ctx, nil
	}

	file, err := config.Load(path)
	if err != nil {
		return ctx, err
	}

	if err := applySettings(command, file); err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, settingsKey{}, file), nil
}

// subcommandSettings is used as the Before hook of every subcommand.
func subcommandSettings(ctx context.Context, command *cli.Command) (context.Context, error) {
	file, ok := ctx.Value(settingsKey{}).(config.File)
	if !ok {
		return ctx, nil
	}

	return ctx, applySettings(command, file)
}

// applySettings sets each flag of the command from the file unless the flag was
// already given on the command line or through its environment variable.
func applySettings(command *cli.Command, file config.File) error {
	values := file.Values()

	for _, flag := range command.Flags {
		name := flag.Names()[0]

		value, ok := values[name]
		if !ok || command.IsSet(name) {
			continue
		}

		if err := command.Set(name, value); err != nil {
			return fmt.Errorf("invalid %s setting: %w", name, err)
		}
	}

	return nil
}
