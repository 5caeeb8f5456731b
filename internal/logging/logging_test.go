package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewWithWriters_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewWithWriters("info", &a, &b)

	logger.Debug("hidden")
	logger.Info("listing created", "listing_id", "abc")

	for _, buf := range []*bytes.Buffer{&a, &b} {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "listing created", rec["msg"])
		assert.Equal(t, "abc", rec["listing_id"])
	}
}

func TestNew_WritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := New("warn", path)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestNew_BadPath(t *testing.T) {
	_, _, err := New("info", filepath.Join(t.TempDir(), "missing", "app.log"))
	assert.Error(t, err)
}
