package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

// fakeTitleFetcher scripts per-id responses; rate-limited ids succeed after
// a configurable number of attempts.
type fakeTitleFetcher struct {
	records    map[int]*TitleRecord
	failWith   map[int]error
	limitUntil map[int]int // id -> attempts that return ErrRateLimited first
	attempts   map[int]int
}

func (f *fakeTitleFetcher) GetTitleByID(ctx context.Context, id int, fresh bool) (*TitleRecord, error) {
	if f.attempts == nil {
		f.attempts = make(map[int]int)
	}
	f.attempts[id]++
	if n, ok := f.limitUntil[id]; ok && f.attempts[id] <= n {
		return nil, ErrRateLimited
	}
	if err, ok := f.failWith[id]; ok {
		return nil, err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrTitleNotFound
	}
	return rec, nil
}

type fakeSaver struct {
	saved [][]TrackedTitle
}

func (f *fakeSaver) SaveTracked(list []TrackedTitle) error {
	f.saved = append(f.saved, list)
	return nil
}

// newTestRefresher builds a refresher with no pacing and an immediate retry
// policy capped at a few attempts.
func newTestRefresher(fetcher TitleFetcher, saver TrackedSaver) *Refresher {
	r := NewRefresher(fetcher, saver, 1)
	r.newBackoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return r
}

func refreshInput() []TrackedTitle {
	stale := tracked(1, "Stale Title", watchedOpt)
	stale.WatchedEpisodes = []int{1, 2}
	stale.TotalEpisodes = intPtr(2)
	return []TrackedTitle{stale, tracked(2, "Other")}
}

func TestRefresher_PreservesUserFields(t *testing.T) {
	t.Parallel()
	score := 9.1
	eps := 26
	fetcher := &fakeTitleFetcher{records: map[int]*TitleRecord{
		1: {ID: 1, Title: "Fresh Title", Episodes: &eps, Score: &score, Status: catalogStatusFinished},
		2: {ID: 2, Title: "Other Fresh"},
	}}
	saver := &fakeSaver{}
	ctx := NewLogger(false).WithContext(t.Context())

	out, err := newTestRefresher(fetcher, saver).Run(ctx, refreshInput())
	assert.NoError(t, err)

	// Catalog fields replaced.
	assert.Equal(t, "Fresh Title", out[0].Title)
	assert.Equal(t, 26, *out[0].TotalEpisodes)
	assert.Equal(t, 9.1, *out[0].Score)
	// User fields kept verbatim.
	assert.True(t, out[0].IsFavorite)
	assert.True(t, out[0].Watched)
	assert.Equal(t, []int{1, 2}, out[0].WatchedEpisodes)
}

func TestRefresher_ItemFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()
	fetcher := &fakeTitleFetcher{
		records:  map[int]*TitleRecord{2: {ID: 2, Title: "Other Fresh"}},
		failWith: map[int]error{1: errors.New("boom")},
	}
	saver := &fakeSaver{}
	ctx := NewLogger(false).WithContext(t.Context())

	out, err := newTestRefresher(fetcher, saver).Run(ctx, refreshInput())
	assert.NoError(t, err)

	// Failed item keeps its prior fields.
	assert.Equal(t, "Stale Title", out[0].Title)
	assert.True(t, out[0].Watched)
	// The rest of the batch was still enriched.
	assert.Equal(t, "Other Fresh", out[1].Title)
}

func TestRefresher_RateLimitRetriesSameItem(t *testing.T) {
	t.Parallel()
	fetcher := &fakeTitleFetcher{
		records: map[int]*TitleRecord{
			1: {ID: 1, Title: "Fresh Title"},
			2: {ID: 2, Title: "Other Fresh"},
		},
		limitUntil: map[int]int{1: 2},
	}
	saver := &fakeSaver{}
	ctx := NewLogger(false).WithContext(t.Context())

	out, err := newTestRefresher(fetcher, saver).Run(ctx, refreshInput())
	assert.NoError(t, err)
	assert.Equal(t, "Fresh Title", out[0].Title)
	assert.Equal(t, 3, fetcher.attempts[1], "two limited attempts then success")
	assert.Equal(t, 1, fetcher.attempts[2])
}

func TestRefresher_SinglePersistAtEnd(t *testing.T) {
	t.Parallel()
	fetcher := &fakeTitleFetcher{records: map[int]*TitleRecord{
		1: {ID: 1, Title: "Fresh Title"},
		2: {ID: 2, Title: "Other Fresh"},
	}}
	saver := &fakeSaver{}
	ctx := NewLogger(false).WithContext(t.Context())

	out, err := newTestRefresher(fetcher, saver).Run(ctx, refreshInput())
	assert.NoError(t, err)
	assert.Len(t, saver.saved, 1, "exactly one write for the whole batch")
	assert.Equal(t, out, saver.saved[0])
}

func TestRefresher_CancellationAbortsWithoutPersisting(t *testing.T) {
	t.Parallel()
	fetcher := &fakeTitleFetcher{records: map[int]*TitleRecord{
		1: {ID: 1, Title: "Fresh Title"},
		2: {ID: 2, Title: "Other Fresh"},
	}}
	saver := &fakeSaver{}

	ctx, cancel := context.WithCancel(NewLogger(false).WithContext(t.Context()))
	cancel()

	r := NewRefresher(fetcher, saver, time.Hour) // pacing select hits ctx.Done first
	_, err := r.Run(ctx, refreshInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, saver.saved)
}

func TestRefresher_InputSliceUntouched(t *testing.T) {
	t.Parallel()
	fetcher := &fakeTitleFetcher{records: map[int]*TitleRecord{
		1: {ID: 1, Title: "Fresh Title"},
		2: {ID: 2, Title: "Other Fresh"},
	}}
	saver := &fakeSaver{}
	ctx := NewLogger(false).WithContext(t.Context())

	in := refreshInput()
	_, err := newTestRefresher(fetcher, saver).Run(ctx, in)
	assert.NoError(t, err)
	assert.Equal(t, "Stale Title", in[0].Title)
}
