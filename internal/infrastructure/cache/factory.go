package cache

import (
	"fmt"

	"github.com/tradedesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StatementCacheFactory creates statement caches based on configuration
type StatementCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StatementCacheFactoryOption is a functional option for configuring the factory
type StatementCacheFactoryOption func(*StatementCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StatementCacheFactoryOption {
	return func(f *StatementCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StatementCacheFactoryOption {
	return func(f *StatementCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStatementCacheFactory creates a new factory
func NewStatementCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...StatementCacheFactoryOption) *StatementCacheFactory {
	f := &StatementCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-based statement cache
func (f *StatementCacheFactory) CreateRedisCache() (*RedisStatementCache, error) {
	client, err := NewRedisClient(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis statement cache: %w", err)
	}
	return NewRedisStatementCache(client, f.cacheConfig.KeyPrefix, f.cacheConfig.StatementTTL, f.logger), nil
}

// CreateInMemoryCache creates an in-memory statement cache.
// In-memory caches are not shared between instances, so another instance's
// postings only become visible here after the TTL.
func (f *StatementCacheFactory) CreateInMemoryCache() *InMemoryStatementCache {
	return NewInMemoryStatementCache(f.cacheConfig.StatementTTL, WithInMemoryLogger(f.logger))
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache if fallback is allowed.
func (f *StatementCacheFactory) CreateCache() (StatementCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory statement cache")
		return f.CreateInMemoryCache(), nil
	}

	redisCache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis statement cache")
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for statement cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory statement cache", zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
