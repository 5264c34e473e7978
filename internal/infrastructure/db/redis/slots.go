package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "console:"
	defaultTimeout = 5 * time.Second
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// SlotStore keeps console slots as plain Redis strings without expiry.
// Key format: console:<slot>
type SlotStore struct {
	client *redis.Client
}

// NewSlotStore creates a SlotStore wrapping the given Redis client.
func NewSlotStore(client *redis.Client) *SlotStore {
	return &SlotStore{client: client}
}

// Open connects to Redis, validates connectivity with a ping and returns a
// SlotStore owning the client. A default timeout is applied when none is provided.
func Open(ctx context.Context, cfg Config) (*SlotStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewSlotStore(client), nil
}

// Close releases the underlying client.
func (s *SlotStore) Close() error {
	return s.client.Close()
}

func (s *SlotStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SlotStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SlotStore) key(slot string) string {
	return keyPrefix + slot
}
