package twitter

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

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return New(config.PlatformConfig{
		BaseURL:  ts.URL,
		APIKey:   "bearer-token",
		PageSize: 5,
		Timeout:  2 * time.Second,
		Retry:    config.RetryConfig{MaxAttempts: 1},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchPage_MapsTweetsWithExpansions(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "Bearer bearer-token", r.Header.Get("Authorization"))
		assert.Equal(t, "climate", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		assert.Equal(t, "nt1", r.URL.Query().Get("next_token"))
		_, _ = w.Write([]byte(`{
		  "data": [
		    {"id": "t1", "text": "hello", "author_id": "u1", "created_at": "2024-02-02T12:00:00.000Z",
		     "public_metrics": {"like_count": 5, "reply_count": 2, "impression_count": 90},
		     "attachments": {"media_keys": ["m1", "m2"]}},
		    {"id": "t2", "text": "no author"},
		    {"id": "t3", "text": "bare", "author_id": "u9"}
		  ],
		  "includes": {
		    "users": [{"id": "u1", "name": "User One", "username": "userone", "profile_image_url": "https://pbs/u1.jpg"}],
		    "media": [
		      {"media_key": "m1", "type": "photo", "url": "https://pbs/m1.jpg"},
		      {"media_key": "m2", "type": "video", "preview_image_url": "https://pbs/m2.jpg",
		       "variants": [{"bit_rate": 256000, "content_type": "video/mp4", "url": "https://v/low.mp4"},
		                    {"bit_rate": 832000, "content_type": "video/mp4", "url": "https://v/high.mp4"},
		                    {"content_type": "application/x-mpegURL", "url": "https://v/pl.m3u8"}]}
		    ]
		  },
		  "meta": {"result_count": 3, "next_token": "nt2"}
		}`))
	})

	page, err := s.FetchPage(context.Background(), "climate", "nt1")
	require.NoError(t, err)

	assert.True(t, page.HadItems)
	assert.Equal(t, "nt2", page.NextCursor)
	require.Len(t, page.Candidates, 2)

	first := page.Candidates[0]
	assert.Equal(t, domain.PlatformMicroblog, first.Platform)
	assert.Equal(t, "t1", first.ExternalID)
	assert.Equal(t, "u1", first.AuthorExternalID)
	assert.Equal(t, "User One", first.AuthorDisplayName)
	assert.Equal(t, "https://pbs/u1.jpg", first.AuthorProfileImageURL)
	assert.Equal(t, "https://pbs/m1.jpg", first.ImageURL)
	assert.Equal(t, "https://v/high.mp4", first.VideoURL)
	assert.Equal(t, int64(5), first.LikeCount)
	assert.Equal(t, int64(2), first.CommentCount)
	assert.Equal(t, int64(90), first.ViewCount)
	assert.Equal(t, "https://twitter.com/userone/status/t1", first.CanonicalURL)
	assert.Equal(t, time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC), first.PublishedAt)

	assert.Equal(t, "https://twitter.com/i/web/status/t3", page.Candidates[1].CanonicalURL)
	assert.Nil(t, page.Candidates[1].Title)
}

func TestFetchPage_NoResults(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"result_count":0}}`))
	})

	page, err := s.FetchPage(context.Background(), "climate", "")
	require.NoError(t, err)
	assert.False(t, page.HadItems)
	assert.Empty(t, page.NextCursor)
}

func TestFetchProfile(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"u1","name":"User One","username":"userone",
			"profile_image_url":"https://pbs/u1.jpg","public_metrics":{"followers_count":10,"tweet_count":300}}}`))
	})

	p, err := s.FetchProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "userone", p.Username)
	assert.Equal(t, "User One", p.DisplayName)
	assert.Equal(t, int64(10), p.FollowerCount)
	assert.Equal(t, int64(300), p.PostCount)
	assert.Equal(t, "https://twitter.com/userone", p.ProfileURL)
}

func TestFetchProfile_ErrorsPayload(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"title":"Not Found Error","detail":"Could not find user with id: [u404]."}]}`))
	})

	_, err := s.FetchProfile(context.Background(), "u404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not find user")
}
