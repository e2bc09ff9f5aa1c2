package main

import (
	"context"
	"fmt"
)

// Tracker performs the user-facing watch-state mutations: favorite toggle,
// global watched toggle, per-episode toggle. Each operation is a
// read-modify-write of the whole persisted collection, with soft delete of
// entries left without any user signal.
type Tracker struct {
	store *Store
}

func NewTracker(store *Store) *Tracker {
	return &Tracker{store: store}
}

// SetFavorite sets the favorite flag for a title, creating the entry on
// first touch and dropping it if no signal remains.
func (t *Tracker) SetFavorite(ctx context.Context, rec TitleRecord, favorite bool) (TrackedTitle, error) {
	return t.mutate(ctx, rec, func(entry *TrackedTitle) {
		entry.IsFavorite = favorite
	})
}

// SetWatched sets the global watched flag, filling or clearing the episode
// set per the coupling rule.
func (t *Tracker) SetWatched(ctx context.Context, rec TitleRecord, watched bool) (TrackedTitle, error) {
	return t.mutate(ctx, rec, func(entry *TrackedTitle) {
		entry.setWatched(watched)
	})
}

// ToggleEpisode flips one episode's watched state. Marking the last missing
// episode flips the global watched flag; any episode activity keeps the
// title favorited, matching the mobile client.
func (t *Tracker) ToggleEpisode(ctx context.Context, rec TitleRecord, episode int) (TrackedTitle, error) {
	if episode < 1 {
		return TrackedTitle{}, fmt.Errorf("episode numbers are 1-based, got %d", episode)
	}
	if rec.Episodes != nil && episode > *rec.Episodes {
		return TrackedTitle{}, fmt.Errorf("episode %d out of range (title has %d)", episode, *rec.Episodes)
	}

	return t.mutate(ctx, rec, func(entry *TrackedTitle) {
		eps := make([]int, 0, len(entry.WatchedEpisodes)+1)
		removed := false
		for _, e := range entry.WatchedEpisodes {
			if e == episode {
				removed = true
				continue
			}
			eps = append(eps, e)
		}
		if !removed {
			eps = append(eps, episode)
		}

		entry.WatchedEpisodes = eps
		entry.IsFavorite = true
		entry.Watched = entry.TotalEpisodes != nil &&
			*entry.TotalEpisodes > 0 && len(eps) == *entry.TotalEpisodes
	})
}

// mutate rebuilds the persisted entry for rec.ID: load, drop the old entry,
// apply fn to a fresh copy carrying the prior user state, and write the
// entry back only while it still has a signal.
func (t *Tracker) mutate(ctx context.Context, rec TitleRecord, fn func(*TrackedTitle)) (TrackedTitle, error) {
	list, err := t.store.LoadTracked()
	if err != nil {
		return TrackedTitle{}, err
	}

	entry := newTrackedFromRecord(rec)
	kept := make([]TrackedTitle, 0, len(list))
	for _, item := range list {
		if item.ID == rec.ID {
			entry.IsFavorite = item.IsFavorite
			entry.Watched = item.Watched
			entry.WatchedEpisodes = item.WatchedEpisodes
			continue
		}
		kept = append(kept, item)
	}

	fn(&entry)

	if entry.Tracked() {
		kept = append(kept, entry)
	} else {
		LogDebug(ctx, "[TRACK] %q (id %d) has no signals left, dropping", entry.Title, entry.ID)
	}

	if err := t.store.SaveTracked(kept); err != nil {
		return TrackedTitle{}, err
	}
	return entry, nil
}

// Lookup returns the persisted entry for an id, if any.
func (t *Tracker) Lookup(id int) (TrackedTitle, bool, error) {
	list, err := t.store.LoadTracked()
	if err != nil {
		return TrackedTitle{}, false, err
	}
	for _, item := range list {
		if item.ID == id {
			return item, true, nil
		}
	}
	return TrackedTitle{}, false, nil
}

// TrackerStats are the collection counters shown on the menu screen.
type TrackerStats struct {
	Favorites int
	Watched   int
}

// Stats counts the tracked collection: every entry counts as a favorite
// slot, watched counts entries with the global flag set.
func (t *Tracker) Stats() (TrackerStats, error) {
	list, err := t.store.LoadTracked()
	if err != nil {
		return TrackerStats{}, err
	}

	stats := TrackerStats{Favorites: len(list)}
	for _, item := range list {
		if item.Watched {
			stats.Watched++
		}
	}
	return stats, nil
}
