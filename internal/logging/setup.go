package logging

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel defines log level types
type LogLevel string

// Log level constants
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat defines log format types
type LogFormat string

// Log format constants
const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// GetLogLevel converts a string log level to slog.Level
func GetLogLevel(level string) slog.Level {
	switch level {
	case string(LogLevelDebug):
		return slog.LevelDebug
	case string(LogLevelWarn):
		return slog.LevelWarn
	case string(LogLevelError):
		return slog.LevelError
	case string(LogLevelInfo):
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ValidateLogLevel ensures the provided level is valid, returning a default if not
func ValidateLogLevel(level string) string {
	switch level {
	case string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError):
		return level
	default:
		return string(LogLevelInfo)
	}
}

// ValidateLogFormat ensures the provided format is valid, returning a default if not
func ValidateLogFormat(format string) string {
	switch format {
	case string(LogFormatText), string(LogFormatJSON):
		return format
	default:
		return string(LogFormatText)
	}
}

// Setup creates the daemon logger: a text or json handler on w, teed into
// buffer so the admin API can serve recent lines.
func Setup(level, format string, buffer *Buffer, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: GetLogLevel(ValidateLogLevel(level))}

	var inner slog.Handler
	if ValidateLogFormat(format) == string(LogFormatJSON) {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	if buffer == nil {
		return slog.New(inner)
	}
	return slog.New(NewBufferHandler(inner, buffer))
}

// SetupErrorLogger creates a simple text logger for reporting errors during startup.
func SetupErrorLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
