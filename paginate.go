package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// QueryKind selects which listing endpoint a query runs against.
type QueryKind int

const (
	QuerySearch QueryKind = iota
	QueryCurrentSeason
	QueryGenres
)

// Query describes one listing query. A new Query means a fresh paginator.
type Query struct {
	Kind         QueryKind
	Text         string
	GenreIDs     []int
	IncludeAdult bool
}

func (q Query) String() string {
	switch q.Kind {
	case QuerySearch:
		return fmt.Sprintf("search %q", q.Text)
	case QueryCurrentSeason:
		return "current season"
	case QueryGenres:
		return fmt.Sprintf("genres %v", q.GenreIDs)
	default:
		return "unknown query"
	}
}

// PageFetcher is the slice of the catalog client the paginator depends on.
type PageFetcher interface {
	FetchPage(ctx context.Context, q Query, page int) (*Page, error)
}

// FetchPage dispatches a query to the matching catalog endpoint.
func (c *CatalogClient) FetchPage(ctx context.Context, q Query, page int) (*Page, error) {
	switch q.Kind {
	case QuerySearch:
		return c.SearchTitles(ctx, q.Text, page, q.IncludeAdult)
	case QueryCurrentSeason:
		return c.CurrentSeason(ctx, page)
	case QueryGenres:
		return c.ByGenres(ctx, q.GenreIDs, page)
	default:
		return nil, fmt.Errorf("unsupported query kind %d", q.Kind)
	}
}

// Paginator drives repeated fetches of one query, deduplicating results by
// title id and detecting end-of-results. At most one fetch is in flight at a
// time; LoadMore while one is running, or after the results are exhausted,
// is a no-op.
type Paginator struct {
	fetcher PageFetcher
	query   Query

	mu       sync.Mutex
	page     int // last successfully loaded page, 0 before the first
	hasMore  bool
	inFlight bool
	items    []TitleRecord
	seen     map[int]struct{}
}

// NewPaginator starts a fresh query: cursor at page 1, empty collection,
// hasMore true.
func NewPaginator(fetcher PageFetcher, query Query) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		query:   query,
		hasMore: true,
		seen:    make(map[int]struct{}),
	}
}

// Items returns the running result collection.
func (p *Paginator) Items() []TitleRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]TitleRecord, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether further pages may exist.
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// LoadMore fetches the next page and merges it into the running collection.
// Returns the number of new items appended.
//
// A rate-limit response aborts the attempt without advancing the cursor and
// is surfaced as ErrRateLimited only for the first page of the query; later
// pages absorb it quietly so an infinite-scroll caller can simply try again.
func (p *Paginator) LoadMore(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.inFlight || !p.hasMore {
		p.mu.Unlock()
		return 0, nil
	}
	p.inFlight = true
	next := p.page + 1
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	page, err := p.fetcher.FetchPage(ctx, p.query, next)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			if next == 1 {
				return 0, fmt.Errorf("%s: %w", p.query, ErrRateLimited)
			}
			LogDebug(ctx, "[PAGINATE] %s page %d rate limited, not advancing", p.query, next)
			return 0, nil
		}
		return 0, fmt.Errorf("fetch %s page %d: %w", p.query, next, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(page.Items) == 0 || !page.HasNextPage {
		p.hasMore = false
	}
	if len(page.Items) == 0 {
		return 0, nil
	}

	// Cross-page duplicates from the upstream are expected; drop them.
	added := 0
	for _, item := range page.Items {
		if _, dup := p.seen[item.ID]; dup {
			continue
		}
		p.seen[item.ID] = struct{}{}
		p.items = append(p.items, item)
		added++
	}
	p.page = next

	LogDebug(ctx, "[PAGINATE] %s page %d: +%d items (total %d, hasMore=%v)",
		p.query, next, added, len(p.items), p.hasMore)
	return added, nil
}
