package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/infrastructure/config"
)

func TestStatementCacheFactory_CreateCache(t *testing.T) {
	cacheCfg := config.CacheConfig{StatementTTL: time.Minute, KeyPrefix: "test"}

	t.Run("redis disabled uses memory", func(t *testing.T) {
		f := NewStatementCacheFactory(config.RedisConfig{Enabled: false}, cacheCfg)
		c, err := f.CreateCache()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryStatementCache{}, c)
	})

	// port 1 is never a redis server
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		f := NewStatementCacheFactory(unreachable, cacheCfg)
		c, err := f.CreateCache()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryStatementCache{}, c)
	})

	t.Run("errors when fallback is disabled", func(t *testing.T) {
		f := NewStatementCacheFactory(unreachable, cacheCfg, WithInMemoryFallback(false))
		_, err := f.CreateCache()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})
}
