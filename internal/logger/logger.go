package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// maxLoggedOutput caps git output attached to log records to keep them readable.
const maxLoggedOutput = 512

// Config controls the logger's level, format, and destination.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	Output io.Writer // defaults to os.Stderr
}

// DefaultConfig returns the configuration used before any explicit setup.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger provides structured logging with helpers for git command tracing.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger from the given configuration.
func New(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{slog: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, attrs ...any) {
	l.slog.Debug(msg, attrs...)
}

func (l *Logger) Info(msg string, attrs ...any) {
	l.slog.Info(msg, attrs...)
}

func (l *Logger) Warn(msg string, attrs ...any) {
	l.slog.Warn(msg, attrs...)
}

func (l *Logger) Error(msg string, attrs ...any) {
	l.slog.Error(msg, attrs...)
}

// With returns a Logger carrying the given attributes on every record.
func (l *Logger) With(attrs ...any) *Logger {
	return &Logger{slog: l.slog.With(attrs...)}
}

// WithComponent returns a Logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// WithOperation returns a Logger tagged with an operation name.
func (l *Logger) WithOperation(operation string) *Logger {
	return l.With("operation", operation)
}

// WithError returns a Logger tagged with an error value.
func (l *Logger) WithError(err error) *Logger {
	return l.With("error", err)
}

// GitCommand logs an outgoing git invocation at debug level.
func (l *Logger) GitCommand(command string, args []string, attrs ...any) {
	all := append([]any{"command", command, "args", strings.Join(args, " ")}, attrs...)
	l.slog.Debug("executing git command", all...)
}

// GitResult logs the outcome of a git invocation. Failures are logged as
// errors, successes at debug level to keep normal runs quiet.
func (l *Logger) GitResult(command string, success bool, output string, attrs ...any) {
	all := append([]any{"command", command, "success", success, "output", truncateOutput(output)}, attrs...)
	if success {
		l.slog.Debug("git command completed", all...)
	} else {
		l.slog.Error("git command failed", all...)
	}
}

func truncateOutput(output string) string {
	output = strings.TrimSpace(output)
	if len(output) <= maxLoggedOutput {
		return output
	}
	return output[:maxLoggedOutput] + "... (truncated)"
}
