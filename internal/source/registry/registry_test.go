package registry

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingester/internal/config"
	"content_ingester/internal/domain"
)

func TestBuild(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	configured := config.PlatformConfig{BaseURL: "http://localhost", APIKey: "k", PageSize: 10}

	slots := Build(config.PlatformsConfig{
		YouTube: configured,
		News:    configured,
	}, logger)

	require.Len(t, slots, 4)

	byPlatform := make(map[domain.Platform]int)
	for i, s := range slots {
		byPlatform[s.Platform] = i
	}

	video := slots[byPlatform[domain.PlatformVideo]]
	assert.NoError(t, video.Err)
	require.NotNil(t, video.Adapter)
	assert.Equal(t, domain.PlatformVideo, video.Adapter.Platform())

	assert.NotNil(t, slots[byPlatform[domain.PlatformNews]].Adapter)

	microblog := slots[byPlatform[domain.PlatformMicroblog]]
	assert.Nil(t, microblog.Adapter)
	assert.ErrorIs(t, microblog.Err, domain.ErrAdapterUnavailable)
	assert.ErrorIs(t, slots[byPlatform[domain.PlatformImageFeed]].Err, domain.ErrAdapterUnavailable)
}

func TestBuild_NewsOmittedWhenUnconfigured(t *testing.T) {
	slots := Build(config.PlatformsConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, s := range slots {
		assert.NotEqual(t, domain.PlatformNews, s.Platform)
	}
	assert.Len(t, slots, 3)
}
