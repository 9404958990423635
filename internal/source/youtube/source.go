package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
	"content_ingester/internal/source"
	"content_ingester/internal/source/httpclient"
)

const (
	watchURL   = "https://www.youtube.com/watch?v="
	channelURL = "https://www.youtube.com/channel/"
	maxResults = 50
)

// Source implements the video platform adapter on the YouTube Data API v3.
type Source struct {
	client   *httpclient.Client
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a YouTube adapter. The API key is sent as the key query parameter.
func New(cfg config.PlatformConfig, logger *slog.Logger) *Source {
	logger = logger.With("platform", domain.PlatformVideo)
	return &Source{
		client:   httpclient.New(string(domain.PlatformVideo), cfg, httpclient.QueryAuth("key", cfg.APIKey), logger),
		pageSize: clamp(cfg.PageSize, 1, maxResults),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Source) Platform() domain.Platform {
	return domain.PlatformVideo
}

// FetchPage runs one search.list page for query and enriches the results with
// a single batched videos.list statistics call.
func (s *Source) FetchPage(ctx context.Context, query, cursor string) (*domain.Page, error) {
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"order":      {"date"},
		"q":          {query},
		"maxResults": {strconv.Itoa(s.pageSize)},
	}
	if cursor != "" {
		params.Set("pageToken", cursor)
	}

	var resp SearchResponse
	if err := s.client.GetJSON(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	page := &domain.Page{
		HadItems:   len(resp.Items) > 0,
		NextCursor: resp.NextPageToken,
	}

	fetchedAt := s.now().UTC()
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" || item.Snippet.ChannelID == "" {
			s.logger.Debug("skipping search item without video or channel id", "kind", item.ID.Kind)
			continue
		}
		ids = append(ids, item.ID.VideoID)
		page.Candidates = append(page.Candidates, domain.ContentRecord{
			Platform:          domain.PlatformVideo,
			ExternalID:        item.ID.VideoID,
			AuthorExternalID:  item.Snippet.ChannelID,
			AuthorDisplayName: item.Snippet.ChannelTitle,
			TextBody:          item.Snippet.Description,
			Title:             source.Ptr(item.Snippet.Title),
			ImageURL:          item.Snippet.Thumbnails.Best(),
			VideoURL:          watchURL + item.ID.VideoID,
			PublishedAt:       source.ParseTimestamp(item.Snippet.PublishedAt, fetchedAt),
			CanonicalURL:      watchURL + item.ID.VideoID,
		})
	}

	if len(ids) > 0 {
		stats, err := s.fetchStatistics(ctx, ids)
		if err != nil {
			s.logger.Warn("failed to fetch video statistics, counters left at zero", "error", err)
		}
		for i := range page.Candidates {
			st, ok := stats[page.Candidates[i].ExternalID]
			if !ok {
				continue
			}
			page.Candidates[i].ViewCount = source.ParseCount(st.ViewCount)
			page.Candidates[i].LikeCount = source.ParseCount(st.LikeCount)
			page.Candidates[i].CommentCount = source.ParseCount(st.CommentCount)
		}
	}

	return page, nil
}

func (s *Source) fetchStatistics(ctx context.Context, ids []string) (map[string]VideoStatistics, error) {
	params := url.Values{
		"part": {"statistics"},
		"id":   {strings.Join(ids, ",")},
	}

	var resp VideosResponse
	if err := s.client.GetJSON(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]VideoStatistics, len(resp.Items))
	for _, item := range resp.Items {
		out[item.ID] = item.Statistics
	}
	return out, nil
}

// FetchProfile looks up a channel.
func (s *Source) FetchProfile(ctx context.Context, channelID string) (*domain.AuthorProfile, error) {
	params := url.Values{
		"part": {"snippet,statistics"},
		"id":   {channelID},
	}

	var resp ChannelsResponse
	if err := s.client.GetJSON(ctx, "/channels", params, &resp); err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ID == "" {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}

	ch := resp.Items[0]
	profileURL := channelURL + ch.ID
	if ch.Snippet.CustomURL != "" {
		profileURL = "https://www.youtube.com/" + ch.Snippet.CustomURL
	}

	return &domain.AuthorProfile{
		ExternalID:      ch.ID,
		Username:        source.FirstNonEmpty(ch.Snippet.CustomURL, ch.Snippet.Title),
		DisplayName:     ch.Snippet.Title,
		ProfileImageURL: ch.Snippet.Thumbnails.Best(),
		FollowerCount:   source.ParseCount(ch.Statistics.SubscriberCount),
		PostCount:       source.ParseCount(ch.Statistics.VideoCount),
		ProfileURL:      profileURL,
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
