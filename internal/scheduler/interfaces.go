package scheduler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"content_ingester/internal/domain"
	"content_ingester/internal/ingest"
)

// TopicSource lists the topics to ingest. GetByID returns an error wrapping
// domain.ErrTopicNotFound for unknown ids.
type TopicSource interface {
	ListActive(ctx context.Context) ([]domain.Topic, error)
	GetByID(ctx context.Context, id int64) (*domain.Topic, error)
}

type Ingester interface {
	Ingest(ctx context.Context, adapter ingest.Adapter, searchTerm string, topicID int64, maxRecords int) (*domain.IngestStats, error)
}

// HashtagConverter turns a free-text topic name into a hashtag search term.
// The second result is false when no usable hashtag remains.
type HashtagConverter interface {
	ToSearchHashtag(name string) (string, bool)
}

// Runner runs every active topic once.
type Runner interface {
	RunAll(ctx context.Context) (*domain.RunReport, error)
}
