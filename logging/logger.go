package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for Archon. Users can provide
// their own implementation or use the built-in slog adapter. Logging is
// purely observational: agents behave identically with a NoOpLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewTextLogger builds a Logger writing human-readable lines to w at the
// given level. Passing nil selects os.Stderr.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

// NewJSONLogger builds a Logger writing JSON lines to w at the given level.
// Passing nil selects os.Stdout.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stdout
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

// RunLogger decorates a Logger with agent-run context (agent name, run id)
// and convenience methods for the recurring event shapes of a reasoning run.
// It is cheap to copy; With returns a derived instance.
type RunLogger struct {
	logger Logger
	agent  string
	runID  string
}

// NewRunLogger wraps a Logger, substituting NoOpLogger for nil.
func NewRunLogger(l Logger, agent, runID string) *RunLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	return &RunLogger{logger: l, agent: agent, runID: runID}
}

// Logger returns the underlying Logger.
func (l *RunLogger) Logger() Logger { return l.logger }

// LogStage records the completion of one reasoning stage.
func (l *RunLogger) LogStage(stage, content string) {
	l.logger.Debug("stage completed",
		"agent", l.agent, "run_id", l.runID, "stage", stage,
		"content", truncate(content, 200))
}

// LogModelCall records a model gateway round trip.
func (l *RunLogger) LogModelCall(stage string, dur time.Duration, err error) {
	if err != nil {
		l.logger.Error("model call failed",
			"agent", l.agent, "run_id", l.runID, "stage", stage,
			"duration", dur, "error", err.Error())
		return
	}
	l.logger.Debug("model call completed",
		"agent", l.agent, "run_id", l.runID, "stage", stage, "duration", dur)
}

// LogToolCall records a tool invocation outcome.
func (l *RunLogger) LogToolCall(tool string, dur time.Duration, err error) {
	if err != nil {
		l.logger.Warn("tool call failed",
			"agent", l.agent, "run_id", l.runID, "tool", tool,
			"duration", dur, "error", err.Error())
		return
	}
	l.logger.Info("tool call completed",
		"agent", l.agent, "run_id", l.runID, "tool", tool, "duration", dur)
}

// LogRunCompletion records the terminal state of a run.
func (l *RunLogger) LogRunCompletion(state string, iterations int, dur time.Duration) {
	l.logger.Info("run completed",
		"agent", l.agent, "run_id", l.runID, "state", state,
		"iterations", iterations, "duration", dur)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
