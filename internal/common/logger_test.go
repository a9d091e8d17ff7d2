package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &buf
}

func TestLogInfoCarriesFields(t *testing.T) {
	buf := captureLogs(t)

	LogInfo("opened snapshot database", Fields{"path": "/tmp/tesoro.db"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"opened snapshot database"`)
	assert.Contains(t, out, `"path":"/tmp/tesoro.db"`)
}

func TestLogErrorCarriesErrorAndFields(t *testing.T) {
	buf := captureLogs(t)

	LogError(errors.New("disk full"), "failed to save snapshot", Fields{"snapshot": "abc"})

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"snapshot":"abc"`)
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, SetupLogger(slog.LevelInfo, "console"))
	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
}
