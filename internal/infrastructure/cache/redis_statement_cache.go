package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tradedesk/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// RedisStatementCache implements StatementCache with one redis hash per tenant.
// Fields hold JSON encoded reports; invalidation deletes the hash.
type RedisStatementCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStatementCache creates a cache on an existing client
func NewRedisStatementCache(client *redis.Client, keyPrefix string, ttl time.Duration, logger *zap.Logger) *RedisStatementCache {
	if keyPrefix == "" {
		keyPrefix = "tradedesk"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatementCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *RedisStatementCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + ":statements:" + tenantID.String()
}

// GetStatement returns the cached financial statement of the tenant
func (c *RedisStatementCache) GetStatement(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, bool, error) {
	var statement finance.FinancialStatement
	found, err := c.get(ctx, tenantID, ReportFinancialStatement, &statement)
	if err != nil || !found {
		return nil, false, err
	}
	return &statement, true, nil
}

// SetStatement stores the financial statement of the tenant
func (c *RedisStatementCache) SetStatement(ctx context.Context, tenantID uuid.UUID, statement *finance.FinancialStatement) error {
	if statement == nil {
		return nil
	}
	return c.set(ctx, tenantID, ReportFinancialStatement, statement)
}

// GetTrialBalance returns the cached trial balance of the tenant
func (c *RedisStatementCache) GetTrialBalance(ctx context.Context, tenantID uuid.UUID) (*finance.TrialBalance, bool, error) {
	var tb finance.TrialBalance
	found, err := c.get(ctx, tenantID, ReportTrialBalance, &tb)
	if err != nil || !found {
		return nil, false, err
	}
	return &tb, true, nil
}

// SetTrialBalance stores the trial balance of the tenant
func (c *RedisStatementCache) SetTrialBalance(ctx context.Context, tenantID uuid.UUID, tb *finance.TrialBalance) error {
	if tb == nil {
		return nil
	}
	return c.set(ctx, tenantID, ReportTrialBalance, tb)
}

// Invalidate drops every cached view of the tenant
func (c *RedisStatementCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate statement cache: %w", err)
	}
	c.logger.Debug("Invalidated statement cache", zap.String("tenant_id", tenantID.String()))
	return nil
}

// Close closes the underlying client
func (c *RedisStatementCache) Close() error {
	return c.client.Close()
}

func (c *RedisStatementCache) get(ctx context.Context, tenantID uuid.UUID, report string, dest any) (bool, error) {
	data, err := c.client.HGet(ctx, c.key(tenantID), report).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from cache: %w", report, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// a corrupt entry is treated as a miss and dropped
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("tenant_id", tenantID.String()),
			zap.String("report", report),
			zap.Error(err))
		_ = c.client.HDel(ctx, c.key(tenantID), report).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisStatementCache) set(ctx context.Context, tenantID uuid.UUID, report string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", report, err)
	}
	key := c.key(tenantID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, report, data)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s to cache: %w", report, err)
	}
	return nil
}

var _ StatementCache = (*RedisStatementCache)(nil)
