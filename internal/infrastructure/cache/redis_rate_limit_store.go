package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// RedisRateLimitStore implements RateLimitStore using Redis.
// This is suitable for distributed deployments where multiple instances
// need to share rate limit counters.
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore creates a new Redis-based rate limit store
func NewRedisRateLimitStore(cfg config.RedisConfig) (*RedisRateLimitStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}, nil
}

// NewRedisRateLimitStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisRateLimitStoreWithClient(client *redis.Client, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Increment adds one hit for the key and returns the window total.
// INCR and EXPIRE run in a single pipeline; the TTL is only set on the
// first hit of a window so later hits cannot extend it.
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	fullKey := s.keyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return incr.Val(), nil
}

// Close closes the Redis client
func (s *RedisRateLimitStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisRateLimitStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisRateLimitStore implements RateLimitStore
var _ RateLimitStore = (*RedisRateLimitStore)(nil)
