package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"content_ingester/internal/domain"
	"content_ingester/internal/ingest"
)

// runOrder is the fixed order adapters run in for every topic.
var runOrder = []domain.Platform{
	domain.PlatformVideo,
	domain.PlatformMicroblog,
	domain.PlatformNews,
	domain.PlatformImageFeed,
}

// Slot is a platform position in the run order. A slot whose adapter could
// not be built carries the construction error instead.
type Slot struct {
	Platform domain.Platform
	Adapter  ingest.Adapter
	Err      error
}

type Scheduler struct {
	topics     TopicSource
	ingester   Ingester
	hashtags   HashtagConverter
	slots      map[domain.Platform]Slot
	maxRecords int
	logger     *slog.Logger

	onRunStart []func()
}

// NewScheduler builds a scheduler over slots. Platforms without a slot are
// treated as not configured and skipped without logging.
func NewScheduler(
	topics TopicSource,
	ingester Ingester,
	hashtags HashtagConverter,
	slots []Slot,
	maxRecords int,
	logger *slog.Logger,
) *Scheduler {
	bySlot := make(map[domain.Platform]Slot, len(slots))
	for _, slot := range slots {
		bySlot[slot.Platform] = slot
	}

	return &Scheduler{
		topics:     topics,
		ingester:   ingester,
		hashtags:   hashtags,
		slots:      bySlot,
		maxRecords: maxRecords,
		logger:     logger.With("component", "scheduler"),
	}
}

// OnRunStart registers fn to be called at the start of every topic run,
// before any adapter is queried. It is not safe to call concurrently with a
// run.
func (s *Scheduler) OnRunStart(fn func()) {
	s.onRunStart = append(s.onRunStart, fn)
}

// RunAll ingests every active topic across all adapters. Only a failure to
// list topics is returned; per-adapter errors are recorded in the report.
func (s *Scheduler) RunAll(ctx context.Context) (*domain.RunReport, error) {
	topics, err := s.topics.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active topics: %w", err)
	}

	s.logger.Info("starting run", "topics", len(topics))
	report := s.run(ctx, topics)
	s.logger.Info("run completed",
		"topics", len(report.Topics),
		"stored", report.Stored(),
		"failures", report.Failures(),
		"duration", report.Duration,
	)

	return report, nil
}

// RunOne ingests a single topic on demand, whether or not it is active.
func (s *Scheduler) RunOne(ctx context.Context, topicID int64) (*domain.RunReport, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("get topic %d: %w", topicID, err)
	}
	if topic == nil {
		return nil, fmt.Errorf("get topic %d: %w", topicID, domain.ErrTopicNotFound)
	}

	return s.run(ctx, []domain.Topic{*topic}), nil
}

// IngestKeyword runs one adapter for a raw keyword without a topic.
// maxRecords <= 0 falls back to the configured per-topic bound.
func (s *Scheduler) IngestKeyword(ctx context.Context, platform domain.Platform, keyword string, maxRecords int) (*domain.IngestStats, error) {
	slot, ok := s.slots[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s not configured", domain.ErrAdapterUnavailable, platform)
	}
	if slot.Err != nil {
		return nil, slot.Err
	}
	if maxRecords <= 0 {
		maxRecords = s.maxRecords
	}

	term := keyword
	if platform == domain.PlatformImageFeed {
		tag, ok := s.hashtags.ToSearchHashtag(keyword)
		if !ok {
			return nil, fmt.Errorf("no usable hashtag for %q", keyword)
		}
		term = tag
	}

	return s.safeIngest(ctx, slot.Adapter, term, 0, maxRecords)
}

func (s *Scheduler) run(ctx context.Context, topics []domain.Topic) *domain.RunReport {
	for _, fn := range s.onRunStart {
		fn()
	}

	report := &domain.RunReport{StartedAt: time.Now()}
	loggedUnavailable := make(map[domain.Platform]bool)

	for _, topic := range topics {
		outcome := domain.TopicOutcome{TopicID: topic.ID, Name: topic.Name}

		for _, platform := range runOrder {
			if ctx.Err() != nil {
				break
			}

			slot, ok := s.slots[platform]
			if !ok {
				continue
			}

			if slot.Err != nil {
				if !loggedUnavailable[platform] {
					s.logger.Error("adapter unavailable", "platform", platform, "error", slot.Err)
					loggedUnavailable[platform] = true
				}
				outcome.Adapters = append(outcome.Adapters, domain.AdapterOutcome{
					Platform: platform,
					Skipped:  true,
					Err:      slot.Err,
				})
				continue
			}

			term := topic.Name
			if platform == domain.PlatformImageFeed {
				tag, ok := s.hashtags.ToSearchHashtag(topic.Name)
				if !ok {
					s.logger.Warn("no usable hashtag, skipping adapter",
						"topic_id", topic.ID,
						"topic", topic.Name,
						"platform", platform,
					)
					outcome.Adapters = append(outcome.Adapters, domain.AdapterOutcome{Platform: platform, Skipped: true})
					continue
				}
				term = tag
			}

			stats, err := s.safeIngest(ctx, slot.Adapter, term, topic.ID, s.maxRecords)
			if err != nil {
				s.logger.Error("ingest failed",
					"topic_id", topic.ID,
					"topic", topic.Name,
					"platform", platform,
					"error", err,
				)
			}
			outcome.Adapters = append(outcome.Adapters, domain.AdapterOutcome{
				Platform: platform,
				Stats:    stats,
				Err:      err,
			})
		}

		report.Topics = append(report.Topics, outcome)
	}

	report.Duration = time.Since(report.StartedAt)
	return report
}

// safeIngest keeps a panicking adapter from taking down sibling work.
func (s *Scheduler) safeIngest(ctx context.Context, adapter ingest.Adapter, term string, topicID int64, maxRecords int) (stats *domain.IngestStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ingest panicked: %v", r)
		}
	}()

	return s.ingester.Ingest(ctx, adapter, term, topicID, maxRecords)
}
