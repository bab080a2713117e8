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

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-3")

	t.Run("errors are logged with correlation", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second)

		l.Trace(ctx, time.Now(), query("SELECT 1", 0), errors.New("connection reset"))

		entries := logs.FilterMessage("Query failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-3", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
	})

	t.Run("record not found is silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second)

		l.Trace(ctx, time.Now(), query("SELECT * FROM customers", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 10*time.Millisecond)

		l.Trace(ctx, time.Now().Add(-time.Second), query("UPDATE customers SET month_value = 1", 3), nil)

		entries := logs.FilterMessage("Slow query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("fast query below info level is dropped", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second)

		l.Trace(ctx, time.Now(), query("SELECT 1", 1), nil)
		assert.Zero(t, logs.Len())

		l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), query("SELECT 1", 1), nil)
		assert.Equal(t, 1, logs.FilterMessage("Query").Len())
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent, time.Second)

		l.Trace(ctx, time.Now(), query("SELECT 1", 0), errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
}
