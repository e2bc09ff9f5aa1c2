package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
)

func newConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change preferences",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print effective configuration and preferences",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, app, err := setupApp(ctx, cmd)
					if err != nil {
						return err
					}
					defer app.Close(ctx)

					baseURL := app.config.Catalog.BaseURL
					if baseURL == "" {
						baseURL = defaultCatalogBaseURL
					}
					LogInfo(ctx, "Catalog URL:  %s", baseURL)
					LogInfo(ctx, "Store path:   %s", app.store.FilePath())
					LogInfo(ctx, "Cache max-age: %s", app.config.GetCacheMaxAge())
					LogInfo(ctx, "Refresh pace: %s", app.config.GetRefreshPace())
					LogInfo(ctx, "Theme:        %s", app.settings.Theme())
					LogInfo(ctx, "Show NSFW:    %v", app.settings.AllowNSFW())
					return nil
				},
			},
			{
				Name:      "theme",
				Usage:     "Set the theme preference",
				ArgsUsage: "<dark|light>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cmd.Args().Present() {
						return fmt.Errorf("theme needs a value: dark or light")
					}

					ctx, app, err := setupApp(ctx, cmd)
					if err != nil {
						return err
					}
					defer app.Close(ctx)

					if err := app.settings.SetTheme(cmd.Args().First()); err != nil {
						return err
					}
					LogInfoSuccess(ctx, "Theme set to %s", app.settings.Theme())
					return nil
				},
			},
			{
				Name:      "nsfw",
				Usage:     "Allow or hide adult titles in catalog results",
				ArgsUsage: "<true|false>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cmd.Args().Present() {
						return fmt.Errorf("nsfw needs a value: true or false")
					}
					allow, err := strconv.ParseBool(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("invalid value %q, want true or false", cmd.Args().First())
					}

					ctx, app, err := setupApp(ctx, cmd)
					if err != nil {
						return err
					}
					defer app.Close(ctx)

					if err := app.settings.SetAllowNSFW(allow); err != nil {
						return err
					}
					LogInfoSuccess(ctx, "Show NSFW set to %v", allow)
					return nil
				},
			},
		},
	}
}
