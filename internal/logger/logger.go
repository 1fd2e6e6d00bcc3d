package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "jot",
	})
	return &Logger{Logger: l}
}

// Stderr returns the process logger. MCP mode owns stdout, so logs always
// go to stderr. JOT_LOG_LEVEL overrides the level (debug, info, warn, error).
func Stderr() *Logger {
	level := log.InfoLevel
	if v := strings.TrimSpace(os.Getenv("JOT_LOG_LEVEL")); v != "" {
		if parsed, err := log.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	return NewWithLevel(os.Stderr, level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// AssistFallback logs a remote assist failure that degraded to the local heuristic.
func (l *Logger) AssistFallback(operation, model string, err error) {
	l.Warn("assist fallback to local",
		"operation", operation,
		"model", model,
		"error", err)
}

// AssistCompleted logs a finished remote assist call.
func (l *Logger) AssistCompleted(operation, model string, latency time.Duration) {
	l.Debug("assist completed",
		"operation", operation,
		"model", model,
		"latency", latency.Round(time.Millisecond))
}

// ServerStarted logs the web server address.
func (l *Logger) ServerStarted(addr string) {
	l.Info("web server started", "addr", addr)
}

// ConfigWarning logs a non-fatal configuration problem.
func (l *Logger) ConfigWarning(msg string, keyvals ...any) {
	l.Warn(msg, keyvals...)
}
