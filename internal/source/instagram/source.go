package instagram

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

const siteURL = "https://www.instagram.com/"

// Source implements the image/video-feed adapter on a hashtag media API.
// The search term is a hashtag, with or without the leading '#'.
type Source struct {
	client   *httpclient.Client
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

func New(cfg config.PlatformConfig, logger *slog.Logger) *Source {
	logger = logger.With("platform", domain.PlatformImageFeed)
	return &Source{
		client:   httpclient.New(string(domain.PlatformImageFeed), cfg, httpclient.HeaderAuth("X-API-Key", cfg.APIKey), logger),
		pageSize: cfg.PageSize,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Source) Platform() domain.Platform {
	return domain.PlatformImageFeed
}

func (s *Source) FetchPage(ctx context.Context, hashtag, cursor string) (*domain.Page, error) {
	tag := strings.TrimPrefix(strings.TrimSpace(hashtag), "#")
	if tag == "" {
		return nil, fmt.Errorf("empty hashtag")
	}

	params := url.Values{"count": {strconv.Itoa(s.pageSize)}}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp MediaResponse
	if err := s.client.GetJSON(ctx, "/tags/"+url.PathEscape(tag)+"/media", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch hashtag media: %w", err)
	}

	page := &domain.Page{
		HadItems:   len(resp.Data) > 0,
		NextCursor: resp.Paging.NextCursor,
	}
	if resp.Paging.HasMore != nil && !*resp.Paging.HasMore {
		page.NextCursor = ""
	}

	fetchedAt := s.now().UTC()
	for _, m := range resp.Data {
		if m.ID == "" || m.Owner.ID == "" {
			s.logger.Debug("skipping media without id or owner", "media_id", m.ID)
			continue
		}
		page.Candidates = append(page.Candidates, s.transform(m, fetchedAt))
	}

	return page, nil
}

func (s *Source) transform(m Media, fetchedAt time.Time) domain.ContentRecord {
	publishedAt := fetchedAt
	if m.TakenAt > 0 {
		publishedAt = time.Unix(m.TakenAt, 0).UTC()
	}
	if m.Timestamp != "" {
		if t, err := source.ParseTime(m.Timestamp); err == nil {
			publishedAt = t
		} else {
			s.logger.Debug("unparseable media timestamp", "media_id", m.ID, "fallback", publishedAt, "error", err)
		}
	}

	record := domain.ContentRecord{
		Platform:              domain.PlatformImageFeed,
		ExternalID:            m.ID,
		AuthorExternalID:      m.Owner.ID,
		AuthorProfileImageURL: m.Owner.ProfilePicURL,
		AuthorDisplayName:     source.FirstNonEmpty(m.Owner.FullName, m.Owner.Username),
		TextBody:              m.Caption,
		LikeCount:             deref(m.LikeCount),
		CommentCount:          deref(m.CommentsCount),
		ViewCount:             deref(m.PlayCount),
		PublishedAt:           publishedAt,
		CanonicalURL:          permalink(m),
	}

	if strings.EqualFold(m.MediaType, "VIDEO") {
		record.VideoURL = source.FirstNonEmpty(m.VideoURL, m.MediaURL)
		record.ImageURL = m.ThumbnailURL
	} else {
		record.ImageURL = source.FirstNonEmpty(m.MediaURL, m.ThumbnailURL)
	}

	return record
}

func (s *Source) FetchProfile(ctx context.Context, userID string) (*domain.AuthorProfile, error) {
	var resp UserResponse
	if err := s.client.GetJSON(ctx, "/users/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if resp.Data.ID == "" || resp.Data.Username == "" {
		return nil, fmt.Errorf("user %s: incomplete profile", userID)
	}

	u := resp.Data
	return &domain.AuthorProfile{
		ExternalID:      u.ID,
		Username:        u.Username,
		DisplayName:     source.FirstNonEmpty(u.FullName, u.Username),
		ProfileImageURL: u.ProfilePicURL,
		FollowerCount:   u.FollowerCount,
		PostCount:       u.MediaCount,
		ProfileURL:      siteURL + u.Username + "/",
	}, nil
}

func permalink(m Media) string {
	if m.Permalink != "" {
		return m.Permalink
	}
	if m.Shortcode != "" {
		return siteURL + "p/" + m.Shortcode + "/"
	}
	return ""
}

func deref(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
