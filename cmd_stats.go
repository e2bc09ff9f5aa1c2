package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func newStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show collection counters",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			stats, err := app.tracker.Stats()
			if err != nil {
				return err
			}
			LogInfo(ctx, "Favorites: %d", stats.Favorites)
			LogInfo(ctx, "Watched:   %d", stats.Watched)
			LogDebug(ctx, "Detail cache holds %d entries", app.catalog.CacheSize())
			return nil
		},
	}
}
