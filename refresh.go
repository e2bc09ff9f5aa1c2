package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// defaultRefreshPace is the fixed delay between enrichment calls,
	// keeping the batch under the upstream per-second budget.
	defaultRefreshPace = 700 * time.Millisecond
)

// TitleFetcher is the slice of the catalog client the refresher depends on.
type TitleFetcher interface {
	GetTitleByID(ctx context.Context, id int, fresh bool) (*TitleRecord, error)
}

// TrackedSaver is the slice of the store the refresher depends on.
type TrackedSaver interface {
	SaveTracked(list []TrackedTitle) error
}

// Refresher re-fetches canonical catalog fields for a resolved collection
// and persists the outcome in a single write. Intentionally sequential: one
// item at a time with fixed pacing, trading latency for request-budget
// safety. There is no partial persistence; a crash mid-batch leaves the
// previously persisted state untouched.
type Refresher struct {
	catalog TitleFetcher
	store   TrackedSaver
	pace    time.Duration

	// newBackoff builds the retry policy used when an item hits the rate
	// limit. Swappable so tests don't wait out real intervals.
	newBackoff func() backoff.BackOff
}

// NewRefresher creates a refresher with the given inter-item pacing.
// pace <= 0 selects the default.
func NewRefresher(catalog TitleFetcher, store TrackedSaver, pace time.Duration) *Refresher {
	if pace <= 0 {
		pace = defaultRefreshPace
	}
	return &Refresher{
		catalog:    catalog,
		store:      store,
		pace:       pace,
		newBackoff: newRefreshBackoffPolicy,
	}
}

func newRefreshBackoffPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1
	return b
}

// Run enriches every item in collection order and persists the full result
// as one write. Per item: a rate-limit response backs off and retries the
// same item; any other failure keeps the item's prior fields, is logged,
// and never aborts the batch. User-owned fields are preserved verbatim.
func (r *Refresher) Run(ctx context.Context, list []TrackedTitle) ([]TrackedTitle, error) {
	out := make([]TrackedTitle, len(list))
	copy(out, list)

	LogStage(ctx, "Refreshing %d titles...", len(out))

	for i := range out {
		if i > 0 {
			select {
			case <-time.After(r.pace):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		LogProgress(ctx, i+1, len(out), out[i].Title)

		rec, err := r.fetchWithBackoff(ctx, out[i].ID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// A single item's failure never aborts the batch.
			LogWarn(ctx, "[REFRESH] %q (id %d) not enriched: %v", out[i].Title, out[i].ID, err)
			continue
		}

		out[i].ApplyCatalog(*rec)
	}

	if err := r.store.SaveTracked(out); err != nil {
		return nil, fmt.Errorf("persist refreshed collection: %w", err)
	}

	LogInfoSuccess(ctx, "Refreshed collection persisted (%d titles)", len(out))
	return out, nil
}

// fetchWithBackoff retries the same item on rate limiting only; every other
// error is permanent for this item.
func (r *Refresher) fetchWithBackoff(ctx context.Context, id int) (*TitleRecord, error) {
	var rec *TitleRecord

	operation := func() error {
		fetched, err := r.catalog.GetTitleByID(ctx, id, true)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				return err
			}
			return backoff.Permanent(err)
		}
		rec = fetched
		return nil
	}

	notify := func(err error, wait time.Duration) {
		LogWarn(ctx, "[REFRESH] Rate limit hit for id %d, retrying in %v", id, wait)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(r.newBackoff(), ctx), notify); err != nil {
		return nil, err
	}
	return rec, nil
}
