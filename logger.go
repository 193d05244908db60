package vmarena

import (
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	// exhausted throttles LogExhausted so a hot loop against a full arena
	// emits at most one warning per second.
	exhausted *rate.Limiter
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{
		Logger:    l,
		exhausted: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return newLogger(slog.New(slog.DiscardHandler))
}

// WithName adds a name field, useful when a process runs several arenas.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("arena", name),
		exhausted: l.exhausted,
	}
}

// LogInit logs arena construction.
func (l *Logger) LogInit(mode string, strategy Strategy, capacity int64, err error) {
	if err != nil {
		l.Error("arena init failed",
			"mode", mode,
			"strategy", strategy.String(),
			"capacity", capacity,
			"error", err,
		)
		return
	}
	l.Info("arena initialized",
		"mode", mode,
		"strategy", strategy.String(),
		"capacity", capacity,
	)
}

// LogExhausted logs an allocation that did not fit. Calls are rate limited.
func (l *Logger) LogExhausted(size, align int, offset, capacity int64) {
	if !l.exhausted.Allow() {
		return
	}
	l.Warn("arena exhausted",
		"size", size,
		"align", align,
		"offset", offset,
		"capacity", capacity,
	)
}

// LogCommitFailed logs an allocation whose pages could not be committed.
func (l *Logger) LogCommitFailed(size int, committed int64, err error) {
	l.Error("page commit failed",
		"size", size,
		"committed", committed,
		"error", err,
	)
}

// LogCommit logs the committed boundary advancing.
func (l *Logger) LogCommit(from, n int64) {
	l.Debug("pages committed",
		"from", from,
		"bytes", n,
	)
}

// LogClear logs a reset.
func (l *Logger) LogClear(offset, committed int64) {
	l.Debug("arena cleared",
		"offset", offset,
		"committed", committed,
	)
}

// LogClose logs arena release.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.Error("arena close failed", "error", err)
		return
	}
	l.Debug("arena closed")
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(compression Compression, bytes int64, err error) {
	if err != nil {
		l.Error("snapshot failed",
			"compression", compression.String(),
			"error", err,
		)
		return
	}
	l.Info("snapshot written",
		"compression", compression.String(),
		"bytes", bytes,
	)
}

// LogRestore logs a restore operation.
func (l *Logger) LogRestore(offset int64, err error) {
	if err != nil {
		l.Error("restore failed", "error", err)
		return
	}
	l.Info("arena restored", "offset", offset)
}
