package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// RateLimitStoreFactory creates rate limit stores based on configuration
type RateLimitStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RateLimitStoreFactoryOption is a functional option for configuring the factory
type RateLimitStoreFactoryOption func(*RateLimitStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RateLimitStoreFactoryOption {
	return func(f *RateLimitStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RateLimitStoreFactoryOption {
	return func(f *RateLimitStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRateLimitStoreFactory creates a new factory
func NewRateLimitStoreFactory(cfg config.RedisConfig, opts ...RateLimitStoreFactoryOption) *RateLimitStoreFactory {
	f := &RateLimitStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based rate limit store
func (f *RateLimitStoreFactory) CreateRedisStore() (RateLimitStore, error) {
	store, err := NewRedisRateLimitStore(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis rate limit store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory rate limit store.
// WARNING: in-memory stores do not share counters across process instances,
// so the effective limit in a distributed deployment is limit * instances.
func (f *RateLimitStoreFactory) CreateInMemoryStore() RateLimitStore {
	return NewInMemoryRateLimitStore()
}

// CreateStore creates a rate limit store based on whether Redis is available.
// It tries Redis first and falls back to in-memory when allowed.
func (f *RateLimitStoreFactory) CreateStore() (RateLimitStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis rate limit store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for rate limiting but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rate limit store",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
