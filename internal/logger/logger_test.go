package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWithPanel_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")

	WithPanel("p-1").Info("panel opened", "editing", true)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "panel opened", entry["msg"])
	assert.Equal(t, "p-1", entry["panel_id"])
	assert.Equal(t, true, entry["editing"])
}

func TestExternalServiceResult_LevelByOutcome(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")

	ExternalServiceResult("hotel-backend", "ListUnits", nil)
	assert.Empty(t, buf.String(), "success is logged at debug")

	ExternalServiceResult("hotel-backend", "ListUnits", errors.New("boom"))
	assert.Contains(t, buf.String(), "External service call failed")
	assert.Contains(t, buf.String(), "boom")
}
