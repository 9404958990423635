package newsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
	"content_ingester/internal/source"
	"content_ingester/internal/source/httpclient"
)

// Source implements the news aggregator adapter on the NewsAPI /everything
// endpoint. The cursor is the next page number.
type Source struct {
	client   *httpclient.Client
	pageSize int
	logger   *slog.Logger
	now      func() time.Time

	mu              sync.Mutex
	names           map[string]string
	catalog         map[string]SourceInfo
	catalogErr      error
	catalogFailedAt time.Time
}

// catalogRetryAfter is how long a failed catalog load is remembered before
// the sources endpoint is tried again.
const catalogRetryAfter = 15 * time.Minute

func New(cfg config.PlatformConfig, logger *slog.Logger) *Source {
	logger = logger.With("platform", domain.PlatformNews)
	pageSize := cfg.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 100
	}
	return &Source{
		client:   httpclient.New(string(domain.PlatformNews), cfg, httpclient.HeaderAuth("X-Api-Key", cfg.APIKey), logger),
		pageSize: pageSize,
		logger:   logger,
		now:      time.Now,
		names:    make(map[string]string),
	}
}

func (s *Source) Platform() domain.Platform {
	return domain.PlatformNews
}

func (s *Source) FetchPage(ctx context.Context, query, cursor string) (*domain.Page, error) {
	pageNum := 1
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page cursor %q", cursor)
		}
		pageNum = n
	}

	params := url.Values{
		"q":        {query},
		"sortBy":   {"publishedAt"},
		"page":     {strconv.Itoa(pageNum)},
		"pageSize": {strconv.Itoa(s.pageSize)},
	}

	var resp EverythingResponse
	if err := s.client.GetJSON(ctx, "/everything", params, &resp); err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("search articles: %s: %s", resp.Code, resp.Message)
	}

	page := &domain.Page{HadItems: len(resp.Articles) > 0}
	if page.HadItems && pageNum*s.pageSize < resp.TotalResults {
		page.NextCursor = strconv.Itoa(pageNum + 1)
	}

	fetchedAt := s.now().UTC()
	for _, a := range resp.Articles {
		authorID := sourceKey(a.Source)
		if a.URL == "" || authorID == "" {
			s.logger.Debug("skipping article without url or source", "title", a.Title)
			continue
		}
		s.rememberName(authorID, a.Source.Name)

		page.Candidates = append(page.Candidates, domain.ContentRecord{
			Platform:          domain.PlatformNews,
			ExternalID:        ArticleID(a.URL),
			AuthorExternalID:  authorID,
			AuthorDisplayName: source.FirstNonEmpty(a.Source.Name, a.Author),
			TextBody:          source.FirstNonEmpty(a.Description, a.Content),
			Title:             source.Ptr(a.Title),
			ImageURL:          a.URLToImage,
			PublishedAt:       source.ParseTimestamp(a.PublishedAt, fetchedAt),
			CanonicalURL:      a.URL,
		})
	}

	return page, nil
}

// FetchProfile resolves a news source. Sources listed by the API catalog are
// described from it; others fall back to the name seen on their articles.
func (s *Source) FetchProfile(ctx context.Context, sourceID string) (*domain.AuthorProfile, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		s.logger.Warn("failed to load sources catalog", "error", err)
	}

	if info, ok := catalog[sourceID]; ok {
		return &domain.AuthorProfile{
			ExternalID:  sourceID,
			Username:    info.ID,
			DisplayName: info.Name,
			ProfileURL:  info.URL,
		}, nil
	}

	s.mu.Lock()
	name, ok := s.names[sourceID]
	s.mu.Unlock()
	if !ok {
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sourceID, err)
		}
		return nil, fmt.Errorf("source %s not found", sourceID)
	}

	return &domain.AuthorProfile{
		ExternalID:  sourceID,
		Username:    sourceID,
		DisplayName: name,
	}, nil
}

func (s *Source) loadCatalog(ctx context.Context) (map[string]SourceInfo, error) {
	s.mu.Lock()
	if s.catalog != nil {
		defer s.mu.Unlock()
		return s.catalog, nil
	}
	if s.catalogErr != nil && s.now().Sub(s.catalogFailedAt) < catalogRetryAfter {
		defer s.mu.Unlock()
		return nil, s.catalogErr
	}
	s.mu.Unlock()

	catalog, err := s.fetchCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.catalogErr = err
		s.catalogFailedAt = s.now()
		return nil, err
	}
	s.catalog, s.catalogErr = catalog, nil
	return catalog, nil
}

func (s *Source) fetchCatalog(ctx context.Context) (map[string]SourceInfo, error) {
	var resp SourcesResponse
	if err := s.client.GetJSON(ctx, "/top-headlines/sources", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, errors.New(resp.Message)
	}

	catalog := make(map[string]SourceInfo, len(resp.Sources))
	for _, info := range resp.Sources {
		catalog[info.ID] = info
	}
	return catalog, nil
}

func (s *Source) rememberName(id, name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.names[id] = name
	s.mu.Unlock()
}

// ArticleID derives a stable external id from an article URL.
func ArticleID(articleURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(articleURL)).String()
}

func sourceKey(src ArticleSource) string {
	if src.ID != "" {
		return src.ID
	}
	return slug(src.Name)
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
