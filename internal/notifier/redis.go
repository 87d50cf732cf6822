package notifier

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes failure alerts to a pub/sub channel so downstream
// consumers (dashboards, pagers) can subscribe without coupling to the engine.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisNotifier(client redis.UniversalClient, channel string) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
	}
}

func (n *RedisNotifier) Send(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return n.client.Publish(ctx, n.channel, message).Err()
}
