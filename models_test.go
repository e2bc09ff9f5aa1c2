package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAirStatusFromString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, AirStatusAiring, airStatusFromString("Currently Airing"))
	assert.Equal(t, AirStatusFinished, airStatusFromString("Finished Airing"))
	assert.Equal(t, AirStatusUnknown, airStatusFromString("Not yet aired"))
	assert.Equal(t, AirStatusUnknown, airStatusFromString(""))
}

func TestTrackedTitle_Tracked(t *testing.T) {
	t.Parallel()
	assert.False(t, TrackedTitle{ID: 1}.Tracked())
	assert.True(t, TrackedTitle{ID: 1, IsFavorite: true}.Tracked())
	assert.True(t, TrackedTitle{ID: 1, Watched: true}.Tracked())
	assert.True(t, TrackedTitle{ID: 1, WatchedEpisodes: []int{4}}.Tracked())
}

func TestTrackedTitle_JSONFieldNames(t *testing.T) {
	t.Parallel()
	eps := 12
	entry := TrackedTitle{
		ID:            1,
		Title:         "A",
		ImageURL:      "https://img.example/a.jpg",
		TotalEpisodes: &eps,
		IsFavorite:    true,
	}

	raw, err := json.Marshal(entry)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"mal_id", "image", "total_episodes", "isFavorite", "watched", "watchedEpisodes"} {
		assert.Contains(t, decoded, key)
	}
}

func TestParseStartDate(t *testing.T) {
	t.Parallel()

	ts, ok := parseStartDate("1998-04-03T00:00:00+00:00")
	assert.True(t, ok)
	assert.Equal(t, 1998, ts.Year())

	ts, ok = parseStartDate("2020-01-10")
	assert.True(t, ok)
	assert.Equal(t, time.January, ts.Month())

	_, ok = parseStartDate("")
	assert.False(t, ok)
	_, ok = parseStartDate("whenever")
	assert.False(t, ok)
}

func TestApplyCatalog(t *testing.T) {
	t.Parallel()
	entry := tracked(1, "old", watchedOpt)
	entry.WatchedEpisodes = []int{1}

	eps := 24
	score := 8.0
	entry.ApplyCatalog(TitleRecord{
		ID:       1,
		Title:    "new",
		Episodes: &eps,
		Score:    &score,
		Status:   catalogStatusAiring,
	})

	assert.Equal(t, "new", entry.Title)
	assert.Equal(t, 24, *entry.TotalEpisodes)
	assert.True(t, entry.IsFavorite)
	assert.True(t, entry.Watched)
	assert.Equal(t, []int{1}, entry.WatchedEpisodes)
}

func TestSortedEpisodes(t *testing.T) {
	t.Parallel()
	in := []int{3, 1, 2}
	assert.Equal(t, []int{1, 2, 3}, sortedEpisodes(in))
	assert.Equal(t, []int{3, 1, 2}, in, "input untouched")
}
