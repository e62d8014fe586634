// Package observability holds the structured logger and the prometheus
// metrics for both the page server and the outbound marketplace client.
package observability

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var logger *slog.Logger

// InitLogger builds the process-wide slog logger. Format is "json" or
// "text"; debug level also records source locations.
func InitLogger(level, format string) {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if format != "json" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// WithRequestID stamps the request id used by FromContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FromContext returns the logger with the request id attached when the
// context carries one.
func FromContext(ctx context.Context) *slog.Logger {
	l := base()
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		return l.With(slog.String("request_id", reqID))
	}
	return l
}

func base() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func parseLevel(level string) slog.Level {
	switch level {
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

// Info logs at info level.
func Info(msg string, args ...any) { base().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { base().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { base().Error(msg, args...) }

// Debug logs at debug level.
func Debug(msg string, args ...any) { base().Debug(msg, args...) }
