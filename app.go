package main

import (
	"context"
	"fmt"
)

// App wires the store, preferences, catalog client and tracker together for
// the command layer.
type App struct {
	config Config

	store    *Store
	settings *Settings
	catalog  *CatalogClient
	tracker  *Tracker
}

// NewApp opens the local state store and builds the catalog client.
func NewApp(ctx context.Context, config Config) (*App, error) {
	store, err := OpenStore(config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	LogDebug(ctx, "State store ready (%d keys)", len(store.Keys()))

	settings := LoadSettings(store)
	LogDebug(ctx, "Preferences: theme=%s nsfw=%v", settings.Theme(), settings.AllowNSFW())

	catalog := NewCatalogClient(ctx, config.Catalog.BaseURL, config.Cache.Dir,
		config.GetCacheMaxAge(), config.GetHTTPTimeout())

	return &App{
		config:   config,
		store:    store,
		settings: settings,
		catalog:  catalog,
		tracker:  NewTracker(store),
	}, nil
}

// Close persists any dirty caches.
func (a *App) Close(ctx context.Context) {
	if err := a.catalog.SaveCache(ctx); err != nil {
		LogWarn(ctx, "Failed to save detail cache: %v", err)
	}
}

// NewRefresher builds the post-merge refresher over this app's catalog and
// store, paced per configuration.
func (a *App) NewRefresher() *Refresher {
	return NewRefresher(a.catalog, a.store, a.config.GetRefreshPace())
}

// lookupRecord resolves a catalog record for tracking operations: the live
// catalog first, falling back to locally known state when the fetch fails
// so offline toggles still work.
func (a *App) lookupRecord(ctx context.Context, id int) (TitleRecord, error) {
	rec, err := a.catalog.GetTitleByID(ctx, id, false)
	if err == nil {
		return *rec, nil
	}

	local, found, lerr := a.tracker.Lookup(id)
	if lerr == nil && found {
		LogWarn(ctx, "Catalog lookup for id %d failed (%v), using local record", id, err)
		return TitleRecord{
			ID:        local.ID,
			Title:     local.Title,
			ImageURL:  local.ImageURL,
			Episodes:  local.TotalEpisodes,
			Status:    local.Status,
			Score:     local.Score,
			StartDate: local.StartDate,
		}, nil
	}

	return TitleRecord{}, fmt.Errorf("lookup title %d: %w", id, err)
}
