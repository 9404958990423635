package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
	"content_ingester/internal/source"
	"content_ingester/internal/source/httpclient"
)

const (
	siteURL = "https://twitter.com/"

	tweetFields = "created_at,public_metrics,author_id,attachments"
	userFields  = "name,username,profile_image_url,public_metrics"
	mediaFields = "type,url,preview_image_url,variants"
)

// Source implements the microblog platform adapter on the X API v2.
type Source struct {
	client   *httpclient.Client
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an X adapter authenticated with an app bearer token.
func New(cfg config.PlatformConfig, logger *slog.Logger) *Source {
	logger = logger.With("platform", domain.PlatformMicroblog)
	return &Source{
		client:   httpclient.New(string(domain.PlatformMicroblog), cfg, httpclient.BearerAuth(cfg.APIKey), logger),
		pageSize: clamp(cfg.PageSize, 10, 100),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Source) Platform() domain.Platform {
	return domain.PlatformMicroblog
}

// FetchPage runs one recent-search page for query. Author and media objects
// come from the includes expansion of the same response.
func (s *Source) FetchPage(ctx context.Context, query, cursor string) (*domain.Page, error) {
	params := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(s.pageSize)},
		"tweet.fields": {tweetFields},
		"expansions":   {"author_id,attachments.media_keys"},
		"user.fields":  {userFields},
		"media.fields": {mediaFields},
	}
	if cursor != "" {
		params.Set("next_token", cursor)
	}

	var resp SearchResponse
	if err := s.client.GetJSON(ctx, "/tweets/search/recent", params, &resp); err != nil {
		return nil, fmt.Errorf("search tweets: %w", err)
	}

	users := make(map[string]User, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}
	media := make(map[string]Media, len(resp.Includes.Media))
	for _, m := range resp.Includes.Media {
		media[m.MediaKey] = m
	}

	page := &domain.Page{
		HadItems:   len(resp.Data) > 0,
		NextCursor: resp.Meta.NextToken,
	}

	fetchedAt := s.now().UTC()
	for _, t := range resp.Data {
		if t.ID == "" || t.AuthorID == "" {
			s.logger.Debug("skipping tweet without id or author", "tweet_id", t.ID)
			continue
		}

		author := users[t.AuthorID]
		record := domain.ContentRecord{
			Platform:              domain.PlatformMicroblog,
			ExternalID:            t.ID,
			AuthorExternalID:      t.AuthorID,
			AuthorProfileImageURL: author.ProfileImageURL,
			AuthorDisplayName:     author.Name,
			TextBody:              t.Text,
			LikeCount:             t.PublicMetrics.LikeCount,
			CommentCount:          t.PublicMetrics.ReplyCount,
			ViewCount:             t.PublicMetrics.ImpressionCount,
			PublishedAt:           source.ParseTimestamp(t.CreatedAt, fetchedAt),
			CanonicalURL:          statusURL(author.Username, t.ID),
		}

		if t.Attachments != nil {
			for _, key := range t.Attachments.MediaKeys {
				m, ok := media[key]
				if !ok {
					continue
				}
				if record.ImageURL == "" {
					record.ImageURL = source.FirstNonEmpty(m.URL, m.PreviewImageURL)
				}
				if record.VideoURL == "" && (m.Type == "video" || m.Type == "animated_gif") {
					record.VideoURL = bestVariant(m.Variants)
				}
			}
		}

		page.Candidates = append(page.Candidates, record)
	}

	return page, nil
}

// FetchProfile looks up a user by id.
func (s *Source) FetchProfile(ctx context.Context, userID string) (*domain.AuthorProfile, error) {
	params := url.Values{"user.fields": {userFields}}

	var resp UserResponse
	if err := s.client.GetJSON(ctx, "/users/"+url.PathEscape(userID), params, &resp); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if resp.Data.ID == "" {
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("get user %s: %s", userID, resp.Errors[0].Detail)
		}
		return nil, fmt.Errorf("user %s not found", userID)
	}

	u := resp.Data
	return &domain.AuthorProfile{
		ExternalID:      u.ID,
		Username:        u.Username,
		DisplayName:     u.Name,
		ProfileImageURL: u.ProfileImageURL,
		FollowerCount:   u.PublicMetrics.FollowersCount,
		PostCount:       u.PublicMetrics.TweetCount,
		ProfileURL:      siteURL + u.Username,
	}, nil
}

func statusURL(username, id string) string {
	if username == "" {
		return siteURL + "i/web/status/" + id
	}
	return siteURL + username + "/status/" + id
}

func bestVariant(variants []Variant) string {
	best := ""
	bestRate := -1
	for _, v := range variants {
		if v.ContentType != "video/mp4" {
			continue
		}
		if v.BitRate > bestRate {
			best, bestRate = v.URL, v.BitRate
		}
	}
	return best
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
