package youtube

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
)

const searchPage = `{
  "nextPageToken": "CAUQAA",
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "vid1"},
     "snippet": {"publishedAt": "2024-03-01T10:00:00Z", "channelId": "chanA", "title": "First",
                 "description": "first video", "channelTitle": "Channel A",
                 "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/vid1/default.jpg"},
                                "high": {"url": "https://i.ytimg.com/vi/vid1/hq.jpg"}}}},
    {"id": {"kind": "youtube#channel"},
     "snippet": {"channelId": "chanB", "title": "a channel result"}},
    {"id": {"kind": "youtube#video", "videoId": "vid2"},
     "snippet": {"publishedAt": "bogus", "channelId": "chanB", "title": "Second"}}
  ]
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	s := New(config.PlatformConfig{
		BaseURL:  ts.URL,
		APIKey:   "yt-key",
		PageSize: 10,
		Timeout:  2 * time.Second,
		Retry:    config.RetryConfig{MaxAttempts: 1},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestFetchPage_MapsSearchAndStatistics(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yt-key", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "golang", r.URL.Query().Get("q"))
			assert.Equal(t, "tok1", r.URL.Query().Get("pageToken"))
			assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(searchPage))
		case "/videos":
			assert.Equal(t, "vid1,vid2", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"items":[{"id":"vid1","statistics":{"viewCount":"100","likeCount":"7","commentCount":"3"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	page, err := s.FetchPage(context.Background(), "golang", "tok1")
	require.NoError(t, err)

	assert.True(t, page.HadItems)
	assert.Equal(t, "CAUQAA", page.NextCursor)
	require.Len(t, page.Candidates, 2)

	first := page.Candidates[0]
	assert.Equal(t, domain.PlatformVideo, first.Platform)
	assert.Equal(t, "vid1", first.ExternalID)
	assert.Equal(t, "chanA", first.AuthorExternalID)
	assert.Equal(t, "Channel A", first.AuthorDisplayName)
	assert.Equal(t, "First", *first.Title)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/hq.jpg", first.ImageURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", first.CanonicalURL)
	assert.Equal(t, int64(100), first.ViewCount)
	assert.Equal(t, int64(7), first.LikeCount)
	assert.Equal(t, int64(3), first.CommentCount)

	second := page.Candidates[1]
	assert.Equal(t, int64(0), second.ViewCount)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), second.PublishedAt)
}

func TestFetchPage_StatisticsFailureKeepsCandidates(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(searchPage))
	})

	page, err := s.FetchPage(context.Background(), "golang", "")
	require.NoError(t, err)
	require.Len(t, page.Candidates, 2)
	assert.Equal(t, int64(0), page.Candidates[0].LikeCount)
}

func TestFetchPage_EmptyLastPage(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	page, err := s.FetchPage(context.Background(), "golang", "")
	require.NoError(t, err)
	assert.False(t, page.HadItems)
	assert.Empty(t, page.NextCursor)
	assert.Empty(t, page.Candidates)
}

func TestFetchPage_UpstreamError(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.FetchPage(context.Background(), "golang", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search videos")
}

func TestFetchProfile(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "chanA", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"items":[{"id":"chanA",
			"snippet":{"title":"Channel A","customUrl":"@chana","thumbnails":{"default":{"url":"https://yt3/a.jpg"}}},
			"statistics":{"subscriberCount":"1200","videoCount":"42"}}]}`))
	})

	p, err := s.FetchProfile(context.Background(), "chanA")
	require.NoError(t, err)
	assert.Equal(t, "chanA", p.ExternalID)
	assert.Equal(t, "@chana", p.Username)
	assert.Equal(t, "Channel A", p.DisplayName)
	assert.Equal(t, "https://yt3/a.jpg", p.ProfileImageURL)
	assert.Equal(t, int64(1200), p.FollowerCount)
	assert.Equal(t, int64(42), p.PostCount)
	assert.Equal(t, "https://www.youtube.com/@chana", p.ProfileURL)
}

func TestFetchProfile_NotFound(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	_, err := s.FetchProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
