package variogram

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger for data-quality diagnostics. The accumulation
// pipeline never fails on degenerate data; it warns through this logger and
// applies a documented fallback instead.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at warn level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output. This is the default
// so the library stays silent unless a caller opts in.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

func (l *Logger) warnDuplicates(n int) {
	if n > 0 {
		l.Warn("coincident coordinates discarded", "pairs", n)
	}
}

func (l *Logger) warnBallFallback(metric string) {
	l.Warn("ball search unavailable, falling back to exhaustive search", "metric", metric)
}
