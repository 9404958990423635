package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"content_ingester/internal/domain"
	"content_ingester/internal/metrics"
	"content_ingester/internal/source"
)

// Options tune the ingestion loop.
type Options struct {
	// MergeTopicRefs adds the current topic to already stored records that
	// match again instead of skipping them silently.
	MergeTopicRefs bool
}

// Service is the bounded pagination driver shared by all platform adapters.
type Service struct {
	content   ContentStore
	authors   AuthorResolver
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	opts      Options
}

func NewService(
	content ContentStore,
	authors AuthorResolver,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	opts Options,
) *Service {
	return &Service{
		content:   content,
		authors:   authors,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "ingest"),
		opts:      opts,
	}
}

// Ingest pages through adapter results for searchTerm and stores at most
// maxRecords new records tagged with topicID (0 means no topic). It stops at
// the end of pagination, on a page that yields nothing new, or at the bound.
// On a fetch error the stats gathered so far are returned with the error.
func (s *Service) Ingest(ctx context.Context, adapter Adapter, searchTerm string, topicID int64, maxRecords int) (*domain.IngestStats, error) {
	start := time.Now()
	platform := adapter.Platform()
	logger := s.logger.With("platform", platform, "topic_id", topicID, "search_term", searchTerm)

	stats := &domain.IngestStats{
		Platform:   platform,
		TopicID:    topicID,
		SearchTerm: searchTerm,
	}
	defer func() { stats.Duration = time.Since(start) }()

	logger.Info("starting ingest", "max_records", maxRecords)

	var cursor domain.FetchCursor
	for stats.Stored < maxRecords {
		page, err := adapter.FetchPage(ctx, searchTerm, cursor.Token)
		if err != nil {
			metrics.FetchErrors.WithLabelValues(string(platform)).Inc()
			logger.Error("fetch page failed", "page", stats.Pages+1, "error", err)
			return stats, fmt.Errorf("fetch page %d: %w", stats.Pages+1, err)
		}

		stats.Pages++
		stats.Fetched += len(page.Candidates)
		metrics.PagesFetched.WithLabelValues(string(platform)).Inc()

		staged, duplicates, err := s.stage(ctx, logger, adapter, page, topicID, maxRecords-stats.Stored, stats)
		if err != nil {
			return stats, err
		}

		if err := s.persist(ctx, platform, staged, duplicates, topicID, stats); err != nil {
			return stats, err
		}
		stats.Stored += len(staged)
		metrics.RecordsStored.WithLabelValues(string(platform)).Add(float64(len(staged)))

		s.publish(ctx, logger, staged, stats)

		logger.Debug("processed page",
			"page", stats.Pages,
			"candidates", len(page.Candidates),
			"staged", len(staged),
			"stored", stats.Stored,
		)

		advanced := cursor.Advance(page.NextCursor, len(page.Candidates))
		if !page.HadItems || len(staged) == 0 || page.NextCursor == "" || !advanced {
			break
		}
	}

	logger.Info("ingest completed",
		"pages", stats.Pages,
		"fetched", stats.Fetched,
		"stored", stats.Stored,
		"duplicates", stats.Duplicates,
		"merged", stats.Merged,
		"author_failures", stats.AuthorFailures,
	)

	return stats, nil
}

// stage filters a page down to new records in page order. Existence is checked
// for the whole page before any author is resolved.
func (s *Service) stage(
	ctx context.Context,
	logger *slog.Logger,
	adapter Adapter,
	page *domain.Page,
	topicID int64,
	remaining int,
	stats *domain.IngestStats,
) ([]domain.ContentRecord, []string, error) {
	if len(page.Candidates) == 0 {
		return nil, nil, nil
	}

	platform := adapter.Platform()

	ids := make([]string, len(page.Candidates))
	for i, c := range page.Candidates {
		ids[i] = c.ExternalID
	}

	existing, err := s.content.ExistingExternalIDs(ctx, platform, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("check existing records: %w", err)
	}

	var staged []domain.ContentRecord
	var duplicates []string
	seen := make(map[string]struct{}, len(page.Candidates))

	for _, candidate := range page.Candidates {
		if len(staged) >= remaining {
			break
		}

		if _, ok := seen[candidate.ExternalID]; ok || existing[candidate.ExternalID] {
			stats.Duplicates++
			metrics.DuplicatesSkipped.WithLabelValues(string(platform)).Inc()
			if existing[candidate.ExternalID] {
				duplicates = append(duplicates, candidate.ExternalID)
			}
			continue
		}
		seen[candidate.ExternalID] = struct{}{}

		author, err := s.authors.Resolve(ctx, platform, candidate.AuthorExternalID, adapter)
		if err != nil {
			if !errors.Is(err, domain.ErrAuthorUnavailable) {
				return nil, nil, fmt.Errorf("resolve author %s: %w", candidate.AuthorExternalID, err)
			}
			stats.AuthorFailures++
			logger.Warn("skipping item, author unresolved",
				"external_id", candidate.ExternalID,
				"author_external_id", candidate.AuthorExternalID,
				"error", err,
			)
			continue
		}

		staged = append(staged, normalize(candidate, platform, author, topicID))
	}

	return staged, duplicates, nil
}

func (s *Service) persist(
	ctx context.Context,
	platform domain.Platform,
	staged []domain.ContentRecord,
	duplicates []string,
	topicID int64,
	stats *domain.IngestStats,
) error {
	merge := s.opts.MergeTopicRefs && topicID != 0 && len(duplicates) > 0
	if len(staged) == 0 && !merge {
		return nil
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if merge {
			merged, err := s.content.AddTopicRef(txCtx, platform, duplicates, topicID)
			if err != nil {
				return fmt.Errorf("merge topic refs: %w", err)
			}
			stats.Merged += int(merged)
		}

		if len(staged) > 0 {
			if _, err := s.content.InsertBatch(txCtx, staged); err != nil {
				return fmt.Errorf("insert records: %w", err)
			}
		}

		return nil
	})
}

func (s *Service) publish(ctx context.Context, logger *slog.Logger, records []domain.ContentRecord, stats *domain.IngestStats) {
	if s.publisher == nil {
		return
	}

	for i := range records {
		if err := s.publisher.Publish(ctx, &records[i]); err != nil {
			logger.Warn("failed to publish record",
				"external_id", records[i].ExternalID,
				"error", err,
			)
			continue
		}
		stats.Published++
	}
}

func normalize(candidate domain.ContentRecord, platform domain.Platform, author *domain.AuthorRecord, topicID int64) domain.ContentRecord {
	record := candidate
	record.Platform = platform
	record.TopicRefs = []int64{}
	if topicID != 0 {
		record.AddTopic(topicID)
	}

	if author != nil {
		if record.AuthorDisplayName == "" {
			record.AuthorDisplayName = source.FirstNonEmpty(author.DisplayName, author.Username)
		}
		if record.AuthorProfileImageURL == "" {
			record.AuthorProfileImageURL = author.ProfileImageURL
		}
	}

	if record.LikeCount < 0 {
		record.LikeCount = 0
	}
	if record.CommentCount < 0 {
		record.CommentCount = 0
	}
	if record.ViewCount < 0 {
		record.ViewCount = 0
	}

	return record
}
