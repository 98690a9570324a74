package logging

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferOrderAndEviction(t *testing.T) {
	b := NewBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Append(Line{Message: fmt.Sprintf("line %d", i)})
	}

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "line 3", lines[0].Message)
	assert.Equal(t, "line 4", lines[1].Message)
	assert.Equal(t, "line 5", lines[2].Message)
}

func TestBufferPartiallyFilled(t *testing.T) {
	b := NewBuffer(10)
	b.Append(Line{Message: "only"})

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "only", lines[0].Message)
}

func TestBufferHandlerCapturesRecords(t *testing.T) {
	b := NewBuffer(10)
	logger := Setup("info", "text", b, io.Discard)

	logger.Info("light selected", "id", "d073d5000001")
	logger.Error("poll failed")
	logger.Debug("below level, not captured")

	lines := b.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "INFO", lines[0].Level)
	assert.Equal(t, "light selected id=d073d5000001", lines[0].Message)
	assert.Equal(t, "ERROR", lines[1].Level)
	assert.WithinDuration(t, time.Now(), lines[0].Time, time.Minute)
}

func TestBufferHandlerCarriesWithAttrs(t *testing.T) {
	b := NewBuffer(10)
	logger := Setup("info", "text", b, io.Discard).With("component", "engine")

	logger.Info("started")

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "started component=engine", lines[0].Message)
}

func TestSetupWritesToSink(t *testing.T) {
	var out bytes.Buffer
	logger := Setup("debug", "json", nil, &out)

	logger.Debug("hello")

	assert.Contains(t, out.String(), `"msg":"hello"`)
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, GetLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, GetLogLevel("warn"))
	assert.Equal(t, slog.LevelError, GetLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, GetLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, GetLogLevel("bogus"))
}

func TestValidateDefaults(t *testing.T) {
	assert.Equal(t, "info", ValidateLogLevel("nonsense"))
	assert.Equal(t, "debug", ValidateLogLevel("debug"))
	assert.Equal(t, "text", ValidateLogFormat("yaml"))
	assert.Equal(t, "json", ValidateLogFormat("json"))
}
