package ingest

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"content_ingester/internal/author"
	"content_ingester/internal/domain"
)

// Adapter is one platform's fetch/parse implementation.
type Adapter interface {
	Platform() domain.Platform
	FetchPage(ctx context.Context, searchTerm, cursor string) (*domain.Page, error)
	FetchProfile(ctx context.Context, externalID string) (*domain.AuthorProfile, error)
}

type ContentStore interface {
	ExistingExternalIDs(ctx context.Context, platform domain.Platform, ids []string) (map[string]bool, error)
	InsertBatch(ctx context.Context, records []domain.ContentRecord) (int64, error)
	AddTopicRef(ctx context.Context, platform domain.Platform, externalIDs []string, topicID int64) (int64, error)
}

type AuthorResolver interface {
	Resolve(ctx context.Context, platform domain.Platform, externalID string, fetcher author.ProfileFetcher) (*domain.AuthorRecord, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, record *domain.ContentRecord) error
}
