package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
)

func newTrackCommand() *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Change watch state for a title",
		Commands: []*cli.Command{
			newTrackFavCommand(),
			newTrackWatchedCommand(),
			newTrackEpisodeCommand(),
		},
	}
}

func newTrackFavCommand() *cli.Command {
	return &cli.Command{
		Name:      "fav",
		Usage:     "Mark or unmark a title as favorite",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "off",
				Usage: "remove the favorite mark",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := trackArgID(cmd)
			if err != nil {
				return err
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			rec, err := app.lookupRecord(ctx, id)
			if err != nil {
				return err
			}
			entry, err := app.tracker.SetFavorite(ctx, rec, !cmd.Bool("off"))
			if err != nil {
				return err
			}
			if entry.IsFavorite {
				LogInfoSuccess(ctx, "%q is now a favorite", entry.Title)
			} else {
				LogInfo(ctx, "%q is no longer a favorite", entry.Title)
			}
			return nil
		},
	}
}

func newTrackWatchedCommand() *cli.Command {
	return &cli.Command{
		Name:      "watched",
		Usage:     "Mark or unmark a title as fully watched",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "off",
				Usage: "mark as unwatched",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := trackArgID(cmd)
			if err != nil {
				return err
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			rec, err := app.lookupRecord(ctx, id)
			if err != nil {
				return err
			}
			entry, err := app.tracker.SetWatched(ctx, rec, !cmd.Bool("off"))
			if err != nil {
				return err
			}
			if entry.Watched {
				LogInfoSuccess(ctx, "%q marked watched (%d episodes)", entry.Title, len(entry.WatchedEpisodes))
			} else {
				LogInfo(ctx, "%q marked unwatched", entry.Title)
			}
			return nil
		},
	}
}

func newTrackEpisodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "ep",
		Usage:     "Toggle one episode's watched state",
		ArgsUsage: "<id> <episode>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("ep needs a title id and an episode number")
			}
			id, err := strconv.Atoi(cmd.Args().Get(0))
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid title id %q", cmd.Args().Get(0))
			}
			episode, err := strconv.Atoi(cmd.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid episode number %q", cmd.Args().Get(1))
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			rec, err := app.lookupRecord(ctx, id)
			if err != nil {
				return err
			}
			entry, err := app.tracker.ToggleEpisode(ctx, rec, episode)
			if err != nil {
				return err
			}

			total := "?"
			if entry.TotalEpisodes != nil {
				total = strconv.Itoa(*entry.TotalEpisodes)
			}
			LogInfoUpdate(ctx, entry.Title, fmt.Sprintf("%d/%s episodes watched", len(entry.WatchedEpisodes), total))
			if entry.Watched {
				LogInfoSuccess(ctx, "%q is now fully watched", entry.Title)
			}
			return nil
		},
	}
}

func trackArgID(cmd *cli.Command) (int, error) {
	if !cmd.Args().Present() {
		return 0, fmt.Errorf("%s needs a title id", cmd.Name)
	}
	id, err := strconv.Atoi(cmd.Args().First())
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid title id %q", cmd.Args().First())
	}
	return id, nil
}
