package main

import (
	"sort"
	"time"
)

// AirStatus is the normalized publication status of a title.
type AirStatus string

const (
	AirStatusAiring   AirStatus = "airing"
	AirStatusFinished AirStatus = "finished"
	AirStatusUnknown  AirStatus = "unknown"
)

// Raw status strings returned by the catalog.
const (
	catalogStatusAiring   = "Currently Airing"
	catalogStatusFinished = "Finished Airing"
)

// TitleRecord is a catalog-owned view of one title, as returned by the
// Remote Catalog Client. It carries no user state.
type TitleRecord struct {
	ID        int
	Title     string
	ImageURL  string
	Episodes  *int
	Status    string
	Score     *float64
	StartDate string
	Synopsis  string
	Year      int
}

// AirStatus maps the raw catalog status to the normalized enum.
func (r TitleRecord) AirStatus() AirStatus {
	return airStatusFromString(r.Status)
}

func airStatusFromString(s string) AirStatus {
	switch s {
	case catalogStatusAiring:
		return AirStatusAiring
	case catalogStatusFinished:
		return AirStatusFinished
	default:
		return AirStatusUnknown
	}
}

// TrackedTitle is one entry in the persisted collection. The JSON field names
// match the backup format produced by the mobile client, so backups from
// either side import cleanly.
type TrackedTitle struct {
	ID              int      `json:"mal_id"`
	Title           string   `json:"title"`
	ImageURL        string   `json:"image"`
	TotalEpisodes   *int     `json:"total_episodes"`
	Status          string   `json:"status"`
	Score           *float64 `json:"score"`
	StartDate       string   `json:"start_date"`
	IsFavorite      bool     `json:"isFavorite"`
	Watched         bool     `json:"watched"`
	WatchedEpisodes []int    `json:"watchedEpisodes"`
}

// Tracked reports whether the entry still carries any user signal.
// Entries for which this is false are dropped on the next write.
func (t TrackedTitle) Tracked() bool {
	return t.IsFavorite || t.Watched || len(t.WatchedEpisodes) > 0
}

// AirStatus maps the stored raw status to the normalized enum.
func (t TrackedTitle) AirStatus() AirStatus {
	return airStatusFromString(t.Status)
}

// StartTime parses the stored start date. Returns (zero, false) when the
// date is missing or unparseable, which sorts as oldest.
func (t TrackedTitle) StartTime() (time.Time, bool) {
	return parseStartDate(t.StartDate)
}

// ScoreOrZero treats a missing score as 0 for ordering.
func (t TrackedTitle) ScoreOrZero() float64 {
	if t.Score == nil {
		return 0
	}
	return *t.Score
}

// ApplyCatalog replaces the catalog-sourced fields from a fresh record,
// leaving user-owned fields (IsFavorite, Watched, WatchedEpisodes) untouched.
func (t *TrackedTitle) ApplyCatalog(rec TitleRecord) {
	t.Title = rec.Title
	t.ImageURL = rec.ImageURL
	t.TotalEpisodes = rec.Episodes
	t.Status = rec.Status
	t.Score = rec.Score
	t.StartDate = rec.StartDate
}

// fullEpisodeSet returns [1..total]. Used when a title is marked watched and
// the episode count is known.
func fullEpisodeSet(total int) []int {
	eps := make([]int, total)
	for i := range eps {
		eps[i] = i + 1
	}
	return eps
}

// setWatched applies the watched/episodes coupling rule: watching fills the
// episode set when the count is known, unwatching clears it.
func (t *TrackedTitle) setWatched(watched bool) {
	t.Watched = watched
	if watched {
		if t.TotalEpisodes != nil && *t.TotalEpisodes > 0 {
			t.WatchedEpisodes = fullEpisodeSet(*t.TotalEpisodes)
		}
		return
	}
	t.WatchedEpisodes = nil
}

// newTrackedFromRecord builds a fresh tracked entry from a catalog record.
func newTrackedFromRecord(rec TitleRecord) TrackedTitle {
	return TrackedTitle{
		ID:            rec.ID,
		Title:         rec.Title,
		ImageURL:      rec.ImageURL,
		TotalEpisodes: rec.Episodes,
		Status:        rec.Status,
		Score:         rec.Score,
		StartDate:     rec.StartDate,
	}
}

// parseStartDate accepts the date formats the catalog emits.
func parseStartDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// sortedEpisodes returns a sorted copy of an episode set for display.
func sortedEpisodes(eps []int) []int {
	out := make([]int, len(eps))
	copy(out, eps)
	sort.Ints(out)
	return out
}
