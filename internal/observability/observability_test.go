package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
)

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, serviceName, entry["service"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	RequestLogger(ctx, logger).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestSpan(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "GET /")
	_, child := StartSpan(ctx, "sales.Load")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Same(t, parent, GetSpan(ctx))

	child.SetTag("rows", "6")
	child.SetError(errors.New("boom"))
	child.Finish()
	require.NotNil(t, child.Duration)

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("done", "span", child)
	assert.Contains(t, buf.String(), `"operation":"sales.Load"`)
	assert.Contains(t, buf.String(), `"status":"ERROR"`)
	assert.Contains(t, buf.String(), `"rows":"6"`)
}
