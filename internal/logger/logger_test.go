package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("verification completed", "overall_confidence", 84)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "verification completed", entry["msg"])
	assert.EqualValues(t, 84, entry["overall_confidence"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("cache hit", "text_len", 12)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "text_len=12")
}
