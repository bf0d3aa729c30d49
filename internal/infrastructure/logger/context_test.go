package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestContextValues(t *testing.T) {
	ctx := WithAccountID(WithRequestID(context.Background(), "req-1"), "acc-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "acc-1", GetAccountID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetAccountID(context.Background()))
}

func TestL_EnrichesWithContextFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithAccountID(ctx, "acc-1")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	L(ctx).Info("order created")

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "acc-1", fields["account_id"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
	assert.Equal(t, traceID.String(), GetTraceID(ctx))
}

func TestL_WithoutFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	L(WithContext(context.Background(), zap.New(core))).Info("plain")

	require.Len(t, recorded.All(), 1)
	assert.Empty(t, recorded.All()[0].Context)
	assert.Empty(t, GetTraceID(context.Background()))
}
