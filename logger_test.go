package findash

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "symbol", "AAPL")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "findash", entry["service"])
	assert.Equal(t, "AAPL", entry["symbol"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	logger.Debug("trace", "view", "news")
	assert.Contains(t, buf.String(), "msg=trace")
	assert.Contains(t, buf.String(), "view=news")
	assert.Contains(t, buf.String(), "service=findash")
}

func TestNewLoggerBoth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "findash.log")
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "info", Output: "both", FilePath: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	logger.Info("server listening", "addr", ":8080")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server listening")
	assert.Contains(t, buf.String(), "server listening")
}
