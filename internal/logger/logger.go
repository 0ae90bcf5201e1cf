package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared by all log lines.
const (
	TraceID = "trace_id"
	Error   = "error"
	OwnerID = "owner_id"
	OrderID = "order_id"
)

type traceIDKey struct{}

// New builds a slog logger writing to w. format is "json" or "text", level is one of
// debug, info, warn, error and defaults to info.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
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

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFrom returns the request trace id, or an empty string outside a request.
func TraceIDFrom(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// FromContext returns l annotated with the request trace id when there is one.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if traceID := TraceIDFrom(ctx); traceID != "" {
		return l.With(slog.String(TraceID, traceID))
	}
	return l
}
