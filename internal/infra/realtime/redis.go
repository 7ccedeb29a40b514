package realtime

import (
	"context"
	"encoding/json"

	"tableside/internal/pkg/config"
	"tableside/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisEmitter publishes fanout events over Redis pub/sub. The socket gateway
// processes subscribe to the manager room and to their own conn:<id> channels
// and forward messages to the attached websocket clients.
type RedisEmitter struct {
	client *redis.Client
}

func NewRedisEmitter(client *redis.Client) *RedisEmitter {
	return &RedisEmitter{client: client}
}

// Connect builds the shared Redis client and verifies the connection.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to redis")
	}

	cleanup := func() { _ = client.Close() }
	return client, cleanup, nil
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (e *RedisEmitter) Publish(ctx context.Context, channel string, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification")
	}
	if err := e.client.Publish(ctx, channel, body).Err(); err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}
