package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog by title",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Usage:   "number of result pages to load",
				Value:   1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if text == "" {
				return fmt.Errorf("search needs a title to look for")
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			query := Query{
				Kind:         QuerySearch,
				Text:         text,
				IncludeAdult: app.settings.AllowNSFW(),
			}
			return runPaginated(ctx, app, query, int(cmd.Int("pages")))
		},
	}
}

func newSeasonCommand() *cli.Command {
	return &cli.Command{
		Name:  "season",
		Usage: "List the currently airing season",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Usage:   "number of result pages to load",
				Value:   1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			return runPaginated(ctx, app, Query{Kind: QueryCurrentSeason}, int(cmd.Int("pages")))
		},
	}
}

func newGenresCommand() *cli.Command {
	return &cli.Command{
		Name:      "genres",
		Usage:     "List titles matching a genre-id set, best first",
		ArgsUsage: "<id,id,...>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Usage:   "number of result pages to load",
				Value:   1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Args().Present() {
				return fmt.Errorf("genres needs at least one genre id (known: %v)", KnownGenres())
			}
			ids, err := ParseGenreIDs(cmd.Args().First())
			if err != nil {
				return err
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			LogInfo(ctx, "Genres: %s", GenreLabel(ids))
			return runPaginated(ctx, app, Query{Kind: QueryGenres, GenreIDs: ids}, int(cmd.Int("pages")))
		},
	}
}

// runPaginated drives the pagination engine for up to `pages` pages and
// renders the running collection.
func runPaginated(ctx context.Context, app *App, query Query, pages int) error {
	if pages < 1 {
		pages = 1
	}

	paginator := NewPaginator(app.catalog, query)
	for i := 0; i < pages; i++ {
		added, err := paginator.LoadMore(ctx)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				// First page of a fresh query: surface the notice and stop.
				LogWarn(ctx, "Too many requests, wait a moment and try again.")
				return nil
			}
			return err
		}
		if added == 0 && !paginator.HasMore() {
			break
		}
	}

	items := paginator.Items()
	if len(items) == 0 {
		LogInfo(ctx, "No results for %s.", query)
		return nil
	}

	for i, rec := range items {
		printRecordLine(ctx, i+1, rec)
	}
	if paginator.HasMore() {
		LogInfo(ctx, "(%d shown, more available — raise --pages)", len(items))
	} else {
		LogInfo(ctx, "(%d shown, end of results)", len(items))
	}
	return nil
}
