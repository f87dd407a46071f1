package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLogger(zap.New(core)), logs
}

func TestNewLogger_NilFallsBackToNop(t *testing.T) {
	logger := NewLogger(nil)
	require.NotNil(t, logger)
	logger.Info(context.Background(), "no panic", nil)
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		message   string
		fields    map[string]interface{}
		wantLevel zapcore.Level
	}{
		{
			name:      "Infoレベルのログ",
			level:     LogLevelInfo,
			message:   "test message",
			fields:    map[string]interface{}{"key": "value"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "Debugレベルのログ",
			level:     LogLevelDebug,
			message:   "debug message",
			fields:    nil,
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:      "Warnレベルのログ",
			level:     LogLevelWarn,
			message:   "warn message",
			fields:    map[string]interface{}{"count": 42},
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "Errorレベルのログ",
			level:     LogLevelError,
			message:   "error message",
			fields:    map[string]interface{}{"payment_id": "pay_1"},
			wantLevel: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newObservedLogger()
			logger.Log(context.Background(), tt.level, tt.message, tt.fields)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.message, entry.Message)
			assert.Equal(t, tt.wantLevel, entry.Level)
			for k, v := range tt.fields {
				assert.EqualValues(t, v, entry.ContextMap()[k])
			}
		})
	}
}

func TestLogger_Error_AddsErrorField(t *testing.T) {
	logger, logs := newObservedLogger()
	logger.Error(context.Background(), "failed", errors.New("boom"), nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error"])
}

func TestLogger_Log_WithSpanContext(t *testing.T) {
	logger, logs := newObservedLogger()

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.Info(ctx, "traced", nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", fields["trace_id"])
	assert.Equal(t, "0102030405060708", fields["span_id"])
}

func TestNewZap(t *testing.T) {
	logger, err := NewZap("test-service", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewZap("test-service", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
