package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// NewCLI creates the root CLI command
func NewCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to config file",
		Value:   "config.yaml",
	}
	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable verbose logging",
	}

	return &cli.Command{
		Name:        "anitrack",
		Usage:       "Browse the anime catalog, track watch state, back it up",
		Version:     "1.0.0",
		Description: "Search and browse a public anime catalog, keep favorites and per-episode watch state locally, and export/import that state as JSON backups with conflict resolution.",
		Flags: []cli.Flag{
			configFlag,
			verboseFlag,
		},
		Commands: []*cli.Command{
			newSearchCommand(),
			newSeasonCommand(),
			newGenresCommand(),
			newListCommand(),
			newShowCommand(),
			newTrackCommand(),
			newExportCommand(),
			newImportCommand(),
			newStatsCommand(),
			newConfigCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return fmt.Errorf("unknown command: %s", cmd.Args().First())
			}
			return cli.ShowAppHelp(cmd)
		},
	}
}

// RunCLI executes the CLI application
func RunCLI() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := NewCLI()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		return fmt.Errorf("command failed")
	}

	return nil
}

// setupApp applies the global flags and builds an App for a command action.
// The returned context carries the logger.
func setupApp(ctx context.Context, cmd *cli.Command) (context.Context, *App, error) {
	verboseVal := cmd.Bool("verbose")
	verbose = &verboseVal

	logger := NewLogger(verboseVal)
	ctx = logger.WithContext(ctx)

	config, err := loadConfigFromFile(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	app, err := NewApp(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("create app: %w", err)
	}

	return ctx, app, nil
}
