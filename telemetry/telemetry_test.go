package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")
	require.Contains(t, buf.String(), "level=warn")
}

func TestInterceptorLogger(t *testing.T) {
	var buf bytes.Buffer
	l := InterceptorLogger(NewLogger(&buf, "debug"))

	l.Log(context.Background(), logging.LevelError, "call failed", "grpc.code", "Internal")
	require.Contains(t, buf.String(), "level=error")
	require.Contains(t, buf.String(), `msg="call failed"`)
	require.Contains(t, buf.String(), "grpc.code=Internal")

	require.Panics(t, func() { l.Log(context.Background(), logging.Level(42), "x") })
}

func TestTraceIDOnlyForSampledSpans(t *testing.T) {
	require.Nil(t, TraceIDFields(context.Background()))
	require.Nil(t, ExemplarFromContext(context.Background()))

	shutdown, err := InitTracing(false)
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	fields := TraceIDFields(ctx)
	require.Len(t, fields, 2)
	require.Equal(t, span.SpanContext().TraceID().String(), fields[1])
	require.Equal(t, fields[1], ExemplarFromContext(ctx)["traceID"])
}
