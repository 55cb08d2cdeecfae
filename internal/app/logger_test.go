package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))

	logger.Warn("Block skipped.", "block_id", "cp")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Block skipped.", record["msg"])
	assert.Equal(t, "cp", record["block_id"])

	fallback := newLogger("loud", "text", &buf)
	assert.True(t, fallback.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, fallback.Enabled(context.Background(), slog.LevelDebug))
}
