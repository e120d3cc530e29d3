package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	logger.Info("store.query.complete", "hits", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store.query.complete", entry["msg"])
	assert.Equal(t, float64(2), entry["hits"])
}

func TestNewTextLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: slog.LevelWarn, Format: "text", Output: &buf})

	logger.Debug("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	// Must not panic with arbitrary args.
	logger.Debug("a", "k", 1)
	logger.Info("b")
	logger.Warn("c", "k", "v")
	logger.Error("d", "err", assert.AnError)
}
