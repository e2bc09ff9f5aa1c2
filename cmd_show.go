package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
)

func newShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show details for one title",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "bypass the detail cache",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Args().Present() {
				return fmt.Errorf("show needs a title id")
			}
			id, err := strconv.Atoi(cmd.Args().First())
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid title id %q", cmd.Args().First())
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			rec, err := app.catalog.GetTitleByID(ctx, id, cmd.Bool("fresh"))
			if err != nil {
				return err
			}

			LogInfo(ctx, "%s (#%d)", rec.Title, rec.ID)
			if rec.Score != nil {
				LogInfo(ctx, "  Score:    %.2f", *rec.Score)
			}
			if rec.Episodes != nil {
				LogInfo(ctx, "  Episodes: %d", *rec.Episodes)
			}
			LogInfo(ctx, "  Status:   %s", rec.AirStatus())
			if rec.StartDate != "" {
				LogInfo(ctx, "  Started:  %s", rec.StartDate)
			}
			if rec.Synopsis != "" {
				LogInfo(ctx, "  %s", rec.Synopsis)
			}

			if t, ok, err := app.tracker.Lookup(id); err == nil && ok {
				eps := sortedEpisodes(t.WatchedEpisodes)
				LogInfo(ctx, "  Tracked:  favorite=%v watched=%v episodes=%v", t.IsFavorite, t.Watched, eps)
			}
			return nil
		},
	}
}
