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

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(50*time.Millisecond))
	ctx := WithStoreID(context.Background(), "s-1")

	gl.Trace(ctx, time.Now(), sqlFn, nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
	gl.Trace(ctx, time.Now(), sqlFn, errors.New("syntax"))
	gl.Trace(ctx, time.Now(), sqlFn, gormlogger.ErrRecordNotFound)

	all := logs.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "SQL Query", all[0].Message)
	assert.Equal(t, zapcore.WarnLevel, all[1].Level)
	assert.Equal(t, "SQL Error", all[2].Message)
	assert.Equal(t, "s-1", all[0].ContextMap()["store_id"])
}

func TestGormLogger_RedactsLiterals(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithRedactedLiterals(true))

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `INSERT INTO customers (phone,address) VALUES ('9876543210','12 O''Neil Rd')`, 1
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, `INSERT INTO customers (phone,address) VALUES ('?','?')`,
		logs.All()[0].ContextMap()["sql"])
}

func TestRedactSQLLiterals(t *testing.T) {
	tests := map[string]string{
		`SELECT 1`:                         `SELECT 1`,
		`WHERE slug = 'ravi-mart' LIMIT 1`: `WHERE slug = '?' LIMIT 1`,
		`WHERE a = '' AND b = 'x'`:         `WHERE a = '?' AND b = '?'`,
		`WHERE name = 'it''s' AND id = 4`:  `WHERE name = '?' AND id = 4`,
		`WHERE note = 'unterminated`:       `WHERE note = '?`,
	}
	for in, want := range tests {
		assert.Equal(t, want, redactSQLLiterals(in), in)
	}
}

func TestGormLogger_Silent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)
	gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("x"))
	assert.Zero(t, logs.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
