package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultCatalogBaseURL = "https://api.jikan.moe/v4"
	defaultPageSize       = 24
	// ~2 req/s (conservative, the public API limit is 3 req/s)
	catalogMinRequestInterval = 500 * time.Millisecond

	synopsisSuffix = "[Written by MAL Rewrite]"
)

// ErrRateLimited signals upstream throttling (HTTP 429). Listing calls never
// auto-retry on it; callers decide whether to surface or absorb it.
var ErrRateLimited = errors.New("too many requests")

// ErrTitleNotFound signals a 404 for a title lookup.
var ErrTitleNotFound = errors.New("title not found")

// Page is one fetched page of a listing query.
type Page struct {
	Items       []TitleRecord
	HasNextPage bool
}

// catalogTitle is the wire shape of one title in catalog responses.
type catalogTitle struct {
	MalID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Episodes *int     `json:"episodes"`
	Status   string   `json:"status"`
	Score    *float64 `json:"score"`
	Aired    struct {
		From string `json:"from"`
	} `json:"aired"`
	Synopsis string `json:"synopsis"`
	Year     int    `json:"year"`
}

// catalogListResponse wraps catalog list endpoints (search, season, genres).
// Pagination is a pointer so that an upstream response without pagination
// metadata is distinguishable from has_next_page=false.
type catalogListResponse struct {
	Data       []catalogTitle `json:"data"`
	Pagination *struct {
		HasNextPage bool `json:"has_next_page"`
	} `json:"pagination"`
}

// catalogItemResponse wraps catalog single-item endpoints.
type catalogItemResponse struct {
	Data catalogTitle `json:"data"`
}

func (t catalogTitle) toRecord() TitleRecord {
	img := t.Images.JPG.LargeImageURL
	if img == "" {
		img = t.Images.JPG.ImageURL
	}
	return TitleRecord{
		ID:        t.MalID,
		Title:     t.Title,
		ImageURL:  img,
		Episodes:  t.Episodes,
		Status:    t.Status,
		Score:     t.Score,
		StartDate: t.Aired.From,
		Synopsis:  strings.TrimSpace(strings.ReplaceAll(t.Synopsis, synopsisSuffix, "")),
		Year:      t.Year,
	}
}

// CatalogClient is an API client for the public anime catalog.
// Listing calls surface 429 as ErrRateLimited without retrying; detail
// lookups go through a file-backed cache.
type CatalogClient struct {
	baseURL    string
	pageSize   int
	httpClient HTTPClient
	cache      *DetailCache

	// Rate limiting
	rateMu      sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewCatalogClient creates a catalog client with transient-failure retries
// and detail caching.
func NewCatalogClient(ctx context.Context, baseURL, cacheDir string, cacheMaxAge time.Duration, timeout time.Duration) *CatalogClient {
	if baseURL == "" {
		baseURL = defaultCatalogBaseURL
	}

	cache := NewDetailCache(cacheDir, cacheMaxAge)
	LogDebug(ctx, "Detail cache loaded (%d entries)", cache.Size())

	return &CatalogClient{
		baseURL:  baseURL,
		pageSize: defaultPageSize,
		httpClient: NewRetryableClient(&http.Client{
			Timeout:   timeout,
			Transport: newLoggingRoundTripper(nil),
		}, 2),
		cache:       cache,
		minInterval: catalogMinRequestInterval,
	}
}

// rateLimit waits if needed to respect upstream request pacing.
func (c *CatalogClient) rateLimit() {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	if c.minInterval <= 0 {
		return
	}
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
}

// SearchTitles fetches one page of free-text search results.
// The adult-content filter is applied server-side via the sfw parameter.
func (c *CatalogClient) SearchTitles(ctx context.Context, query string, page int, includeAdult bool) (*Page, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.pageSize))
	if !includeAdult {
		params.Set("sfw", "true")
	}
	return c.fetchListing(ctx, "/anime", params)
}

// CurrentSeason fetches one page of the currently airing season.
func (c *CatalogClient) CurrentSeason(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.pageSize))
	return c.fetchListing(ctx, "/seasons/now", params)
}

// ByGenres fetches one page of titles matching a genre-id set, best first.
func (c *CatalogClient) ByGenres(ctx context.Context, genreIDs []int, page int) (*Page, error) {
	ids := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	params := url.Values{}
	params.Set("genres", strings.Join(ids, ","))
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("order_by", "score")
	params.Set("sort", "desc")
	return c.fetchListing(ctx, "/anime", params)
}

func (c *CatalogClient) fetchListing(ctx context.Context, path string, params url.Values) (*Page, error) {
	apiURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	LogDebug(ctx, "[CATALOG] GET %s", apiURL)

	c.rateLimit()

	resp, err := c.doRequest(ctx, apiURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close

	var listResp catalogListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	items := make([]TitleRecord, 0, len(listResp.Data))
	for _, t := range listResp.Data {
		items = append(items, t.toRecord())
	}

	// Without pagination metadata, assume more pages until an empty one.
	hasNext := true
	if listResp.Pagination != nil {
		hasNext = listResp.Pagination.HasNextPage
	}

	LogDebug(ctx, "[CATALOG] %s: %d items, has_next_page=%v", path, len(items), hasNext)
	return &Page{Items: items, HasNextPage: hasNext}, nil
}

// GetTitleByID retrieves the full record for one title, checking the detail
// cache first. Pass fresh=true to bypass the cache (enrichment must observe
// current upstream state).
func (c *CatalogClient) GetTitleByID(ctx context.Context, id int, fresh bool) (*TitleRecord, error) {
	if id <= 0 {
		return nil, ErrTitleNotFound
	}

	if !fresh {
		if cached, found := c.cache.Get(id); found {
			var t catalogTitle
			if err := json.Unmarshal(cached, &t); err == nil {
				LogDebug(ctx, "[CATALOG CACHE] HIT: title %d -> %s", id, t.Title)
				rec := t.toRecord()
				return &rec, nil
			}
		}
	}

	apiURL := fmt.Sprintf("%s/anime/%d", c.baseURL, id)
	LogDebug(ctx, "[CATALOG] GET %s", apiURL)

	c.rateLimit()

	resp, err := c.doRequest(ctx, apiURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close

	var itemResp catalogItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&itemResp); err != nil {
		return nil, fmt.Errorf("decode title %d: %w", id, err)
	}
	if itemResp.Data.MalID == 0 {
		return nil, ErrTitleNotFound
	}

	if encoded, err := json.Marshal(itemResp.Data); err == nil {
		c.cache.Set(id, encoded)
	}

	rec := itemResp.Data.toRecord()
	return &rec, nil
}

// SaveCache persists the detail cache to disk if there are unsaved changes.
func (c *CatalogClient) SaveCache(ctx context.Context) error {
	return c.cache.Save(ctx)
}

// CacheSize reports how many detail records the cache currently holds.
func (c *CatalogClient) CacheSize() int {
	return c.cache.Size()
}

// doRequest makes an HTTP GET request and maps the non-2xx statuses the
// engines care about onto their sentinel errors.
func (c *CatalogClient) doRequest(ctx context.Context, apiURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusTooManyRequests:
		resp.Body.Close() //nolint:errcheck,gosec // best effort close
		return nil, ErrRateLimited
	case http.StatusNotFound:
		resp.Body.Close() //nolint:errcheck,gosec // best effort close
		return nil, ErrTitleNotFound
	default:
		status := resp.Status
		resp.Body.Close() //nolint:errcheck,gosec // best effort close
		return nil, fmt.Errorf("unexpected status: %s", status)
	}
}
