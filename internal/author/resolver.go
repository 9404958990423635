package author

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"content_ingester/internal/domain"
	"content_ingester/internal/metrics"
)

type cacheKey struct {
	platform   domain.Platform
	externalID string
}

// maxCachedAuthors bounds the in-memory cache. Reaching it drops every entry;
// the store stays authoritative.
const maxCachedAuthors = 10000

// Resolver maps platform-native author ids to local author records, creating
// them from the platform profile API on first sight. Resolved records are
// cached until Reset, which the scheduler calls at the start of each run.
type Resolver struct {
	store  Store
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey]*domain.AuthorRecord
}

func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger.With("component", "author_resolver"),
		cache:  make(map[cacheKey]*domain.AuthorRecord),
	}
}

// Resolve returns the author record for externalID, calling fetcher only when
// the author is neither cached nor stored. Upstream failures are reported as
// domain.ErrAuthorUnavailable.
func (r *Resolver) Resolve(ctx context.Context, platform domain.Platform, externalID string, fetcher ProfileFetcher) (*domain.AuthorRecord, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: empty author id", domain.ErrAuthorUnavailable)
	}

	key := cacheKey{platform: platform, externalID: externalID}

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		metrics.AuthorLookups.WithLabelValues(string(platform), "cached").Inc()
		return cached, nil
	}

	stored, err := r.store.Get(ctx, platform, externalID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if stored != nil {
		metrics.AuthorLookups.WithLabelValues(string(platform), "stored").Inc()
		r.remember(key, stored)
		return stored, nil
	}

	profile, err := fetcher.FetchProfile(ctx, externalID)
	if err != nil {
		metrics.AuthorLookups.WithLabelValues(string(platform), "failed").Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrAuthorUnavailable, platform, externalID, err)
	}
	if err := validate(profile); err != nil {
		metrics.AuthorLookups.WithLabelValues(string(platform), "failed").Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrAuthorUnavailable, platform, externalID, err)
	}

	record := profile.ToRecord(platform)
	record.AuthorExternalID = externalID

	created, err := r.store.CreateIfAbsent(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	metrics.AuthorLookups.WithLabelValues(string(platform), "created").Inc()
	r.logger.Debug("author created",
		"platform", platform,
		"author_external_id", externalID,
		"username", created.Username,
	)

	r.remember(key, created)
	return created, nil
}

// Reset empties the cache so profile changes made since the last run are
// read back from the store.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[cacheKey]*domain.AuthorRecord)
	r.mu.Unlock()
}

func (r *Resolver) remember(key cacheKey, record *domain.AuthorRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) >= maxCachedAuthors {
		r.logger.Debug("author cache full, clearing", "size", len(r.cache))
		r.cache = make(map[cacheKey]*domain.AuthorRecord)
	}
	r.cache[key] = record
}

func validate(p *domain.AuthorProfile) error {
	if p == nil {
		return fmt.Errorf("empty profile")
	}
	if p.Username == "" && p.DisplayName == "" {
		return fmt.Errorf("profile has no username or display name")
	}
	return nil
}
