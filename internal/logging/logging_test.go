package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/notepid/pdf24/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestClientWithoutPathIsSilent(t *testing.T) {
	log, closeLog, err := ForClient(config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
	assert.NoError(t, closeLog())
}

func TestConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", zap.String("id", "abc"))
	require.NoError(t, closeLog())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "abc", entry["id"])
}

func TestRollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pdf24.log")
	log, closeLog, err := New(config.LogConfig{Path: path}, nil)
	require.NoError(t, err)

	log.Info("upload finished", zap.String("outcome", "succeeded"))
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outcome":"succeeded"`)
}
