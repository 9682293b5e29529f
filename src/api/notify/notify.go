package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const streamAlerts = "govforum.alerts"

// Dispatcher publishes fire-and-forget alert events to a Redis stream
// consumed by the external mailer. Callers treat dispatch failures as
// log-and-continue.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// SpamDetected announces a content id crossing the report threshold.
func (d *Dispatcher) SpamDetected(ctx context.Context, network, proposalType, contentID string, count uint32) error {
	_, err := d.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamAlerts,
		Values: map[string]interface{}{
			"id":       uuid.NewString(),
			"event":    "spam_detected",
			"network":  network,
			"type":     proposalType,
			"content":  contentID,
			"count":    count,
			"reported": time.Now().Unix(),
		},
	}).Result()
	return err
}
