package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher sends refresh notifications after a scrape cycle persists its
// results.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a publisher on the given Redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishRefresh publishes the literal "refresh" payload on a channel.
func (p *Publisher) PublishRefresh(ctx context.Context, channel string) error {
	if err := p.rdb.Publish(ctx, channel, PayloadRefresh).Err(); err != nil {
		return fmt.Errorf("failed to publish refresh on %s: %w", channel, err)
	}
	return nil
}
