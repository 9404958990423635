package newsapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
)

const everythingPage = `{
  "status": "ok",
  "totalResults": 5,
  "articles": [
    {"source": {"id": "bbc-news", "name": "BBC News"}, "author": "Reporter",
     "title": "Headline", "description": "desc", "url": "https://bbc.co.uk/a1",
     "urlToImage": "https://bbc.co.uk/a1.jpg", "publishedAt": "2024-06-01T08:00:00Z"},
    {"source": {"id": null, "name": "Local Gazette!"}, "title": "Local", "content": "body",
     "url": "https://gazette.example/a2", "publishedAt": "2024-06-01T09:00:00Z"},
    {"source": {"id": null, "name": ""}, "title": "orphan", "url": "https://x/a3"},
    {"source": {"id": "cnn", "name": "CNN"}, "title": "no url"}
  ]
}`

func newTestSource(t *testing.T, pageSize int, handler http.HandlerFunc) *Source {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return New(config.PlatformConfig{
		BaseURL:  ts.URL,
		APIKey:   "news-key",
		PageSize: pageSize,
		Timeout:  2 * time.Second,
		Retry:    config.RetryConfig{MaxAttempts: 1},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchPage_MapsArticlesAndPaginates(t *testing.T) {
	s := newTestSource(t, 2, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "news-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(everythingPage))
	})

	page, err := s.FetchPage(context.Background(), "elections", "2")
	require.NoError(t, err)

	assert.True(t, page.HadItems)
	assert.Equal(t, "3", page.NextCursor)
	require.Len(t, page.Candidates, 2)

	first := page.Candidates[0]
	assert.Equal(t, domain.PlatformNews, first.Platform)
	assert.Equal(t, ArticleID("https://bbc.co.uk/a1"), first.ExternalID)
	assert.Equal(t, "bbc-news", first.AuthorExternalID)
	assert.Equal(t, "BBC News", first.AuthorDisplayName)
	assert.Equal(t, "Headline", *first.Title)
	assert.Equal(t, "desc", first.TextBody)
	assert.Equal(t, "https://bbc.co.uk/a1", first.CanonicalURL)

	second := page.Candidates[1]
	assert.Equal(t, "local-gazette", second.AuthorExternalID)
	assert.Equal(t, "body", second.TextBody)
}

func TestFetchPage_LastPageHasNoCursor(t *testing.T) {
	s := newTestSource(t, 100, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(everythingPage))
	})

	page, err := s.FetchPage(context.Background(), "elections", "")
	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
}

func TestFetchPage_ErrorStatus(t *testing.T) {
	s := newTestSource(t, 10, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"maximumResultsReached","message":"limit"}`))
	})

	_, err := s.FetchPage(context.Background(), "elections", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximumResultsReached")
}

func TestFetchPage_InvalidCursor(t *testing.T) {
	s := newTestSource(t, 10, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := s.FetchPage(context.Background(), "elections", "abc")
	assert.Error(t, err)
}

func TestFetchProfile_CatalogAndFallback(t *testing.T) {
	var catalogCalls int32
	s := newTestSource(t, 100, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/top-headlines/sources":
			atomic.AddInt32(&catalogCalls, 1)
			_, _ = w.Write([]byte(`{"status":"ok","sources":[{"id":"bbc-news","name":"BBC News","url":"https://www.bbc.co.uk/news"}]}`))
		case "/everything":
			_, _ = w.Write([]byte(everythingPage))
		}
	})

	_, err := s.FetchPage(context.Background(), "elections", "")
	require.NoError(t, err)

	bbc, err := s.FetchProfile(context.Background(), "bbc-news")
	require.NoError(t, err)
	assert.Equal(t, "BBC News", bbc.DisplayName)
	assert.Equal(t, "https://www.bbc.co.uk/news", bbc.ProfileURL)

	local, err := s.FetchProfile(context.Background(), "local-gazette")
	require.NoError(t, err)
	assert.Equal(t, "Local Gazette!", local.DisplayName)

	_, err = s.FetchProfile(context.Background(), "unknown")
	assert.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&catalogCalls))
}

func TestFetchProfile_CatalogFailureIsRemembered(t *testing.T) {
	var catalogCalls int32
	s := newTestSource(t, 100, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/top-headlines/sources":
			atomic.AddInt32(&catalogCalls, 1)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
		case "/everything":
			_, _ = w.Write([]byte(everythingPage))
		}
	})

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.FetchPage(context.Background(), "elections", "")
	require.NoError(t, err)

	for _, id := range []string{"bbc-news", "local-gazette", "unknown", "bbc-news"} {
		_, _ = s.FetchProfile(context.Background(), id)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&catalogCalls))

	local, err := s.FetchProfile(context.Background(), "local-gazette")
	require.NoError(t, err)
	assert.Equal(t, "Local Gazette!", local.DisplayName)

	_, err = s.FetchProfile(context.Background(), "unknown")
	assert.ErrorContains(t, err, "bad key")

	now = now.Add(catalogRetryAfter)
	_, _ = s.FetchProfile(context.Background(), "unknown")
	assert.Equal(t, int32(2), atomic.LoadInt32(&catalogCalls))
}

func TestArticleIDStable(t *testing.T) {
	assert.Equal(t, ArticleID("https://a/b"), ArticleID("https://a/b"))
	assert.NotEqual(t, ArticleID("https://a/b"), ArticleID("https://a/c"))
}
