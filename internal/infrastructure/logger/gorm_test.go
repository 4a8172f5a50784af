package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow), recorded
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogModeDoesNotMutate(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info, 0)
	clone, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Error, clone.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("logs errors", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), errors.New("connection reset"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	})

	t.Run("ignores record not found", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, time.Millisecond)
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn("SELECT * FROM accounts", 6), nil)
		assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	})

	t.Run("traces queries only at info", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), nil)
		assert.Zero(t, recorded.Len())

		gl, recorded = newObservedGorm(gormlogger.Info, 0)
		ctx := context.WithValue(context.Background(), requestIDKey, "req-7")
		gl.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
		entries := recorded.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Silent, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), errors.New("x"))
		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLogLevel("info"))
}
