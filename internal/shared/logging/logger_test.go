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

func TestNewWritesJSONWithSubsystem(t *testing.T) {
	var buf bytes.Buffer
	logger := New("tui", &buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("hello", "kind", "click")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "tui", rec["subsystem"])
	assert.Equal(t, "click", rec["kind"])
	assert.Contains(t, rec, "source")
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "tapdeck.log")
	w, err := Open(path)
	require.NoError(t, err)

	logger := New("test", w, slog.LevelDebug)
	logger.Info("written")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
}

func TestOpenStderr(t *testing.T) {
	w, err := Open("-")
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
