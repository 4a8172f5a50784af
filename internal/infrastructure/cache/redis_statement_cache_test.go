package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStatementCache_Key(t *testing.T) {
	c := NewRedisStatementCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "", time.Minute, nil)
	defer c.Close()

	tenantID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	assert.Equal(t, "tradedesk:statements:00000000-0000-0000-0000-000000000001", c.key(tenantID))
}

func TestRedisStatementCache_ErrorsAreWrapped(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	c := NewRedisStatementCache(client, "test", time.Minute, nil)
	defer c.Close()
	ctx := context.Background()

	_, found, err := c.GetStatement(ctx, uuid.New())
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), ReportFinancialStatement)

	err = c.Invalidate(ctx, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalidate")
}
