package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/demobank/internal/domain"
)

// NotificationChannel is the pub/sub channel notification events are published on.
const NotificationChannel = "demobank:notifications"

// Publisher publishes notification events as JSON over Redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a new Publisher on NotificationChannel.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client:  client,
		channel: NotificationChannel,
	}
}

// Publish sends event to the channel.
func (p *Publisher) Publish(ctx context.Context, event *domain.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}
