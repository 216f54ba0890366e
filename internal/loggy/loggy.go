// Package loggy is a thin wrapper around log/slog with a process-wide logger,
// per-instance loggers and source locations on every record.
package loggy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Config configures the logger
type Config struct {
	Level      slog.Level
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr", or a file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty keeps slog's default)
}

// DefaultConfig returns a default configuration for the logger
func DefaultConfig() Config {
	return Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stderr",
		AddSource:  true,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger
type Logger struct {
	slogger   *slog.Logger
	addSource bool
}

// New builds a logger from cfg without touching the global logger
func New(cfg Config) (*Logger, error) {
	output, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return newWithWriter(output, cfg), nil
}

// Init initializes the global logger. Only the first call has any effect.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		var logger *Logger
		logger, err = New(cfg)
		if err != nil {
			NewNoopLogger()
			return
		}
		SetGlobalLogger(logger)
	})
	return err
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func newWithWriter(w io.Writer, cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.TimeFormat != "" {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(a.Key, t.Format(cfg.TimeFormat))
				}
			}
			return a
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{slogger: slog.New(handler), addSource: cfg.AddSource}
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// NewNoopLogger creates and sets a logger that discards all output, useful for testing
func NewNoopLogger() *Logger {
	noop := newWithWriter(io.Discard, Config{Level: slog.LevelError})
	SetGlobalLogger(noop)
	return noop
}

// Debug logs at debug level on the global logger
func Debug(msg string, args ...any) {
	globalLogger.log(slog.LevelDebug, msg, args...)
}

// Info logs at info level on the global logger
func Info(msg string, args ...any) {
	globalLogger.log(slog.LevelInfo, msg, args...)
}

// Warn logs at warn level on the global logger
func Warn(msg string, args ...any) {
	globalLogger.log(slog.LevelWarn, msg, args...)
}

// Error logs at error level on the global logger
func Error(msg string, args ...any) {
	globalLogger.log(slog.LevelError, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// log records msg with the caller of the exported logging function as source.
// The skip count is fixed because every exported entry point calls log directly.
func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil || l.slogger == nil {
		return
	}
	ctx := context.Background()
	if !l.slogger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	if l.addSource {
		if _, file, line, ok := runtime.Caller(2); ok {
			r.AddAttrs(slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(file), line)))
		}
	}
	r.Add(args...)
	_ = l.slogger.Handler().Handle(ctx, r)
}

// With returns a new Logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{slogger: l.slogger.With(args...), addSource: l.addSource}
}

// WithGroup returns a new Logger that nests subsequent attributes under name
func (l *Logger) WithGroup(name string) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{slogger: l.slogger.WithGroup(name), addSource: l.addSource}
}

// WithError adds error details to a logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error(), "error_type", fmt.Sprintf("%T", err))
}

// Handler returns the underlying slog.Handler
func (l *Logger) Handler() slog.Handler {
	return l.slogger.Handler()
}
