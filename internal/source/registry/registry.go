package registry

import (
	"fmt"
	"log/slog"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
	"content_ingester/internal/scheduler"
	"content_ingester/internal/source/instagram"
	"content_ingester/internal/source/newsapi"
	"content_ingester/internal/source/twitter"
	"content_ingester/internal/source/youtube"
)

// Build constructs one scheduler slot per platform. The news adapter is
// optional and left out entirely when unconfigured; the others become
// unavailable slots so the scheduler reports them.
func Build(cfg config.PlatformsConfig, logger *slog.Logger) []scheduler.Slot {
	var slots []scheduler.Slot

	if cfg.YouTube.Configured() {
		slots = append(slots, scheduler.Slot{Platform: domain.PlatformVideo, Adapter: youtube.New(cfg.YouTube, logger)})
	} else {
		slots = append(slots, unavailable(domain.PlatformVideo, "youtube"))
	}

	if cfg.Twitter.Configured() {
		slots = append(slots, scheduler.Slot{Platform: domain.PlatformMicroblog, Adapter: twitter.New(cfg.Twitter, logger)})
	} else {
		slots = append(slots, unavailable(domain.PlatformMicroblog, "twitter"))
	}

	if cfg.News.Configured() {
		slots = append(slots, scheduler.Slot{Platform: domain.PlatformNews, Adapter: newsapi.New(cfg.News, logger)})
	}

	if cfg.Instagram.Configured() {
		slots = append(slots, scheduler.Slot{Platform: domain.PlatformImageFeed, Adapter: instagram.New(cfg.Instagram, logger)})
	} else {
		slots = append(slots, unavailable(domain.PlatformImageFeed, "instagram"))
	}

	return slots
}

func unavailable(platform domain.Platform, key string) scheduler.Slot {
	return scheduler.Slot{
		Platform: platform,
		Err:      fmt.Errorf("%w: platforms.%s requires base_url and api_key", domain.ErrAdapterUnavailable, key),
	}
}
