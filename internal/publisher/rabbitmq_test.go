package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_ingester/internal/domain"
)

func TestRoutingKeyFor(t *testing.T) {
	r := &RabbitMQ{routingKey: "content.ingested"}

	assert.Equal(t, "content.ingested.image-feed", r.RoutingKeyFor(domain.PlatformImageFeed))
	assert.Equal(t, "content.ingested.microblog", r.RoutingKeyFor(domain.PlatformMicroblog))
}

func TestContentMessage_JSON(t *testing.T) {
	msg := ContentMessage{
		Action: actionIngested,
		Record: domain.ContentRecord{
			Platform:   domain.PlatformNews,
			ExternalID: "abc",
			TopicRefs:  []int64{},
		},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "ingested", raw["action"])

	record, ok := raw["record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "news", record["platform"])
	assert.Equal(t, []any{}, record["topic_refs"])
	assert.NotContains(t, record, "title")
}
