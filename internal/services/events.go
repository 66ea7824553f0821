package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventMarkerPrefix = "stripe:event:"
	eventMarkerTTL    = 72 * time.Hour
)

// EventMarker records which gateway events have already been handled, so
// duplicate webhook deliveries do not trigger duplicate notifications.
type EventMarker interface {
	// MarkProcessed records the event id and reports whether this call was
	// the first to do so.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}

type redisEventMarker struct {
	client *redis.Client
}

// NewEventMarker returns a redis-backed event marker. The marker is taken
// before notification dispatch; payment gateways deliver events at least
// once, not exactly once.
func NewEventMarker(client *redis.Client) EventMarker {
	return &redisEventMarker{client: client}
}

func (m *redisEventMarker) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return m.client.SetNX(ctx, eventMarkerPrefix+eventID, "1", eventMarkerTTL).Result()
}
