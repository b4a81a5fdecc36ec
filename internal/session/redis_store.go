package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the session in a Redis hash and announces every change on a
// pub/sub channel so clients on other machines converge.
type RedisStore struct {
	client  *redis.Client
	key     string
	channel string
	logger  *zap.Logger
}

// NewRedisStore stores values in the hash "<channel>:values" and publishes on channel.
func NewRedisStore(client *redis.Client, channel string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = "educonnect:session"
	}
	return &RedisStore{client: client, key: channel + ":values", channel: channel, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make(map[string]interface{}, len(values))
	for k, v := range values {
		args[k] = v
	}
	if err := s.client.HSet(ctx, s.key, args).Err(); err != nil {
		return fmt.Errorf("redis hset session: %w", err)
	}
	s.publish(ctx, "set")
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel session: %w", err)
	}
	s.publish(ctx, "delete")
	return nil
}

func (s *RedisStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close() //nolint:errcheck
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) publish(ctx context.Context, event string) {
	if err := s.client.Publish(ctx, s.channel, event).Err(); err != nil {
		s.logger.Warn("session change not published", zap.String("channel", s.channel), zap.Error(err))
	}
}
