package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerNotNil(t *testing.T) {
	require.NotNil(t, NewLogger(Config{}))
}

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = NewLogger(Config{Level: "debug"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestJSONFormatAndErrorHelper(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Config{Format: "json"})

	Error(logger, "create venue failed", errors.New("boom"), FieldVenueID, 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "create venue failed", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.EqualValues(t, 7, line[FieldVenueID])
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Info(nil, "x")
		Warn(nil, "x")
		Error(nil, "x", errors.New("y"))
	})
}

func TestContextLogger(t *testing.T) {
	fallback := NewLogger(Config{})
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := fallback.With(FieldRequestID, "abc")
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}

func TestWithCommon(t *testing.T) {
	attrs := WithCommon(nil, "canchas-api", "")
	require.Len(t, attrs, 1)
	assert.Equal(t, FieldService, attrs[0].Key)
}
