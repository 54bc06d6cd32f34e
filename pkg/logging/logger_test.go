package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("bikeshare-test", "0.0.1", InfoLevel)
	logger.SetOutput(&buf)

	ctx := WithCity(WithRequestID(context.Background(), "req-1"), "chicago")
	logger.Info(ctx, "[LOAD] Dataset loaded", Fields{"rows": 42})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "bikeshare-test", entry.Service)
	assert.Equal(t, "[LOAD] Dataset loaded", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "chicago", entry.City)
	assert.Equal(t, float64(42), entry.Fields["rows"])
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("bikeshare-test", "0.0.1", WarnLevel)
	logger.SetOutput(&buf)

	logger.Debug(context.Background(), "debug", nil)
	logger.Info(context.Background(), "info", nil)
	assert.Zero(t, buf.Len())

	logger.Error(context.Background(), "failed", Fields{}, errors.New("boom"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "boom", entry.Error)
	assert.NotEmpty(t, entry.File)
}

func TestContextLogger_MergesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("bikeshare-test", "0.0.1", DebugLevel)
	logger.SetOutput(&buf)

	logger.WithFields(Fields{"source": "csv", "city": "chicago"}).
		Warn(context.Background(), "skipped", Fields{"city": "washington"})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "csv", entry.Fields["source"])
	assert.Equal(t, "washington", entry.Fields["city"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("whatever"))
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Error(context.Background(), "ignored", nil, errors.New("x"))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
