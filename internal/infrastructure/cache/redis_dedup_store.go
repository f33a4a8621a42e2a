package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stayops/backend/internal/application/alerting"
)

// RedisDedupStore implements the notification dedup store on Redis so
// that multiple instances share suppression state.
type RedisDedupStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisDedupStore creates a new Redis-backed dedup store
func NewRedisDedupStore(cfg RedisConfig) (*RedisDedupStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupStore{
		client:    client,
		keyPrefix: "alert:dedup:",
	}, nil
}

// NewRedisDedupStoreWithClient creates a store with an existing Redis
// client, useful for tests or when sharing a client across components
func NewRedisDedupStoreWithClient(client *redis.Client, keyPrefix string) *RedisDedupStore {
	if keyPrefix == "" {
		keyPrefix = "alert:dedup:"
	}
	return &RedisDedupStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// ShouldNotify reports whether a notification for key may be sent now.
// SETNX with TTL makes the claim atomic: exactly one caller wins the
// interval across all instances.
func (s *RedisDedupStore) ShouldNotify(ctx context.Context, key string, interval time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dedup window: %w", err)
	}
	return claimed, nil
}

// Close closes the Redis client
func (s *RedisDedupStore) Close() error {
	return s.client.Close()
}

var _ alerting.DedupStore = (*RedisDedupStore)(nil)
