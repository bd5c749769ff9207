// Package logging builds the salesdash slog loggers and the helpers every package logs through.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Service is attached to every record written by NewLogger.
const Service = "salesdash"

// Values of the "component" attribute.
const (
	ComponentHTTP      = "http_server"
	ComponentSources   = "sources"
	ComponentDashboard = "dashboard"
	ComponentExport    = "export"
	ComponentScheduler = "scheduler"
)

type loggerKey struct{}

// NewJSONLogger writes JSON records at level and above.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewLogger is the service logger: text while developing, JSON in test and production.
func NewLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	logger := NewJSONLogger(w, level)
	if env == "development" {
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return logger.With(slog.String("service", Service))
}

// ParseLevel reads a --log-level value: debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForComponent tags logger with a component. A nil logger becomes Discard.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger.With(slog.String("component", component))
}

// RequestLogger derives the logger for one HTTP request. The dashboard session is left
// out when the request has none.
func RequestLogger(logger *slog.Logger, r *http.Request, clientIP, session string) *slog.Logger {
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("client_ip", clientIP),
	}
	if session != "" {
		attrs = append(attrs, slog.String("session", session))
	}
	return logger.With(attrs...)
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, then fallback, then slog.Default.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// LogError logs err under message.
func LogError(logger *slog.Logger, message string, err error, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelError, message,
		append([]slog.Attr{slog.String("error", err.Error())}, attrs...)...)
}

// LogOperation logs a completed operation. Zero "duration" attributes are dropped.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	kept := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == "duration" && attr.Value.Kind() == slog.KindDuration && attr.Value.Duration() == 0 {
			continue
		}
		kept = append(kept, attr)
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, operation, kept...)
}

// LogHTTPRequest records a finished request on its request logger. Server errors log at
// error level and client errors at warn.
func LogHTTPRequest(logger *slog.Logger, status, bytes int, elapsed time.Duration, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	logger.LogAttrs(context.Background(), level, "http_request",
		append([]slog.Attr{
			slog.Int("status", status),
			slog.Int("bytes", bytes),
			slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
		}, attrs...)...)
}
