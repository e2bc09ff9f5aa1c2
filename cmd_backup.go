package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the full local state to a backup file",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Args().Present() {
				return fmt.Errorf("export needs an output path")
			}
			path := cmd.Args().First()

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if err := WriteBackupFile(app.store, path, time.Now()); err != nil {
				return err
			}
			LogInfoSuccess(ctx, "Backup written to %s", path)
			return nil
		},
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Merge a backup file into the tracked collection",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "resolve",
				Aliases: []string{"r"},
				Usage:   "conflict resolution: watched, unwatched or manual",
				Value:   string(ResolveAllWatched),
			},
			&cli.StringFlag{
				Name:  "toggle",
				Usage: "comma-separated conflict ids to flip (manual mode)",
			},
			&cli.BoolFlag{
				Name:  "no-refresh",
				Usage: "skip the post-merge catalog refresh",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Args().Present() {
				return fmt.Errorf("import needs a backup file path")
			}
			path := cmd.Args().First()

			mode, err := ParseResolutionMode(cmd.String("resolve"))
			if err != nil {
				return err
			}
			toggles, err := parseToggleIDs(cmd.String("toggle"))
			if err != nil {
				return err
			}
			if len(toggles) > 0 && mode != ResolveManual {
				return fmt.Errorf("--toggle only applies with --resolve manual")
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read backup file: %w", err)
			}

			ctx, app, err := setupApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			current, err := app.store.LoadTracked()
			if err != nil {
				return err
			}

			session := NewRestoreSession(current)
			if err := session.Load(raw); err != nil {
				var malformed *MalformedBackupError
				if errors.As(err, &malformed) {
					return fmt.Errorf("this file does not look like a backup: %s", malformed.Reason)
				}
				return err
			}

			result := session.Result()
			LogStage(ctx, "Merge: %d new, %d conflicts, %d untouched",
				len(result.NewItems), len(result.Conflicts), len(result.Untouched))
			for _, c := range result.Conflicts {
				LogInfo(ctx, "  conflict #%d %q (was watched=%v)", c.ID, c.Title, c.PriorWatched)
			}

			if err := session.SetMode(mode); err != nil {
				return err
			}
			for _, id := range toggles {
				if err := session.ToggleWatched(id); err != nil {
					return err
				}
			}

			final, err := session.Finalize()
			if err != nil {
				return err
			}
			if err := app.store.SaveTracked(final); err != nil {
				return fmt.Errorf("persist merged collection: %w", err)
			}
			LogInfoSuccess(ctx, "Imported %d titles (%s resolution)", len(final), mode)

			if cmd.Bool("no-refresh") {
				return nil
			}

			if _, err := app.NewRefresher().Run(ctx, final); err != nil {
				return err
			}
			return nil
		},
	}
}

func parseToggleIDs(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var id int
		if _, err := fmt.Sscanf(part, "%d", &id); err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid conflict id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
