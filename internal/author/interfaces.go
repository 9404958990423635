package author

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"content_ingester/internal/domain"
)

// Store persists author records. Get returns nil, nil when the author is
// unknown. CreateIfAbsent inserts atomically and returns the stored row,
// whichever writer created it.
type Store interface {
	Get(ctx context.Context, platform domain.Platform, externalID string) (*domain.AuthorRecord, error)
	CreateIfAbsent(ctx context.Context, author *domain.AuthorRecord) (*domain.AuthorRecord, error)
}

// ProfileFetcher calls a platform's profile API.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, externalID string) (*domain.AuthorProfile, error)
}
