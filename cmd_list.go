package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show the tracked collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "all, watched, unwatched or seasonal",
				Value:   string(FilterAll),
			},
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "az, score, newest or oldest",
				Value:   string(SortAZ),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			list, err := app.store.LoadTracked()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				LogInfo(ctx, "Nothing tracked yet. Use `anitrack search` and `anitrack track` to get started.")
				return nil
			}

			filter := ParseFilterOption(cmd.String("filter"))
			order := ParseSortOption(cmd.String("sort"))
			shown := BuildDisplayList(list, filter, order)
			if len(shown) == 0 {
				LogInfo(ctx, "No titles match filter %q.", filter)
				return nil
			}
			for i, t := range shown {
				printTrackedLine(ctx, i+1, t)
			}
			LogInfo(ctx, "(%d of %d shown, filter=%s sort=%s)", len(shown), len(list), filter, order)
			return nil
		},
	}
}
