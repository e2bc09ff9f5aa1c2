package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// newTestCatalogClient creates a CatalogClient pointing at a test server,
// with pacing disabled so tests run fast.
func newTestCatalogClient(t *testing.T, serverURL, cacheDir string) *CatalogClient {
	t.Helper()
	return &CatalogClient{
		baseURL:    serverURL,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      NewDetailCache(cacheDir, 24*time.Hour),
	}
}

func catalogEntry(id int, title string) map[string]interface{} {
	return map[string]interface{}{
		"mal_id": id,
		"title":  title,
		"images": map[string]interface{}{
			"jpg": map[string]interface{}{
				"image_url":       "https://img.example/small.jpg",
				"large_image_url": "https://img.example/large.jpg",
			},
		},
		"episodes": 12,
		"status":   "Finished Airing",
		"score":    8.5,
		"aired":    map[string]interface{}{"from": "2020-01-10T00:00:00+00:00"},
		"synopsis": "A story. [Written by MAL Rewrite]",
		"year":     2020,
	}
}

func catalogListBody(hasNext bool, entries ...map[string]interface{}) map[string]interface{} {
	data := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data = append(data, e)
	}
	return map[string]interface{}{
		"data":       data,
		"pagination": map[string]interface{}{"has_next_page": hasNext},
	}
}

func TestCatalogClient_SearchTitles(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "cowboy", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "24", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("sfw"))

		writeJSON(t, w, catalogListBody(true, catalogEntry(1, "Cowboy Bebop")))
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	page, err := client.SearchTitles(ctx, "cowboy", 2, false)
	assert.NoError(t, err)
	assert.True(t, page.HasNextPage)
	assert.Len(t, page.Items, 1)

	rec := page.Items[0]
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "Cowboy Bebop", rec.Title)
	assert.Equal(t, "https://img.example/large.jpg", rec.ImageURL)
	assert.Equal(t, 12, *rec.Episodes)
	assert.Equal(t, AirStatusFinished, rec.AirStatus())
	assert.Equal(t, 8.5, *rec.Score)
	assert.Equal(t, "A story.", rec.Synopsis, "boilerplate suffix must be stripped")
	assert.Equal(t, 2020, rec.Year)
}

func TestCatalogClient_SearchTitles_NSFWAllowedOmitsSFWParam(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("sfw"))
		writeJSON(t, w, catalogListBody(false))
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	_, err := client.SearchTitles(ctx, "anything", 1, true)
	assert.NoError(t, err)
}

func TestCatalogClient_ByGenres(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		assert.Equal(t, "1,18", r.URL.Query().Get("genres"))
		assert.Equal(t, "score", r.URL.Query().Get("order_by"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort"))

		writeJSON(t, w, catalogListBody(false, catalogEntry(30, "Neon Genesis Evangelion")))
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	page, err := client.ByGenres(ctx, []int{1, 18}, 1)
	assert.NoError(t, err)
	assert.False(t, page.HasNextPage)
	assert.Len(t, page.Items, 1)
}

func TestCatalogClient_CurrentSeason(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/now", r.URL.Path)
		writeJSON(t, w, catalogListBody(true, catalogEntry(5, "Current Show")))
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	page, err := client.CurrentSeason(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "Current Show", page.Items[0].Title)
}

func TestCatalogClient_MissingPaginationAssumesMore(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"data": []interface{}{catalogEntry(1, "One")},
		})
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	page, err := client.CurrentSeason(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, page.HasNextPage)
}

func TestCatalogClient_RateLimited(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	_, err := client.SearchTitles(ctx, "x", 1, false)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestCatalogClient_GetTitleByID(t *testing.T) {
	t.Parallel()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/anime/42", r.URL.Path)
		writeJSON(t, w, map[string]interface{}{"data": catalogEntry(42, "Answer")})
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	rec, err := client.GetTitleByID(ctx, 42, false)
	assert.NoError(t, err)
	assert.Equal(t, "Answer", rec.Title)
	assert.Equal(t, 1, requests)

	// Second lookup is served from the cache.
	rec, err = client.GetTitleByID(ctx, 42, false)
	assert.NoError(t, err)
	assert.Equal(t, "Answer", rec.Title)
	assert.Equal(t, 1, requests)

	// fresh=true bypasses the cache.
	_, err = client.GetTitleByID(ctx, 42, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestCatalogClient_GetTitleByID_NotFound(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	_, err := client.GetTitleByID(ctx, 99999, false)
	assert.ErrorIs(t, err, ErrTitleNotFound)

	_, err = client.GetTitleByID(ctx, 0, false)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCatalogClient_SmallImageFallback(t *testing.T) {
	t.Parallel()
	entry := catalogEntry(7, "Fallback")
	entry["images"] = map[string]interface{}{
		"jpg": map[string]interface{}{"image_url": "https://img.example/only.jpg"},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"data": entry})
	}))
	defer server.Close()

	client := newTestCatalogClient(t, server.URL, t.TempDir())
	ctx := NewLogger(false).WithContext(t.Context())

	rec, err := client.GetTitleByID(ctx, 7, false)
	assert.NoError(t, err)
	assert.Equal(t, "https://img.example/only.jpg", rec.ImageURL)
}
