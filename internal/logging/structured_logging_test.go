package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestNewLogger(t *testing.T) {
	t.Run("production writes JSON with the service name", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "production", slog.LevelInfo).Info("hello", slog.Int("count", 42))

		entry := lastEntry(t, &buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, Service, entry["service"])
		assert.Equal(t, float64(42), entry["count"])
		assert.Contains(t, entry, "time")
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "development", slog.LevelInfo).Info("hello", slog.String("rep", "Alice"))

		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "service=salesdash")
		assert.Contains(t, output, "rep=Alice")
	})

	t.Run("respects the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.EqualError(t, err, `unknown log level "loud"`)
}

func TestForComponent(t *testing.T) {
	var buf bytes.Buffer
	ForComponent(NewJSONLogger(&buf, slog.LevelInfo), ComponentSources).Info("source_loaded")
	assert.Equal(t, ComponentSources, lastEntry(t, &buf)["component"])

	assert.NotPanics(t, func() { ForComponent(nil, ComponentDashboard).Info("dropped") })
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, slog.LevelInfo)
	r := httptest.NewRequest(http.MethodPost, "/api/dashboard/events.json?x=1", nil)

	RequestLogger(base, r, "192.0.2.7", "abc").Info("inside")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/dashboard/events.json", entry["path"])
	assert.Equal(t, "192.0.2.7", entry["client_ip"])
	assert.Equal(t, "abc", entry["session"])

	RequestLogger(base, r, "192.0.2.7", "").Info("no session")
	assert.NotContains(t, lastEntry(t, &buf), "session")
}

func TestLogHelpers(t *testing.T) {
	t.Run("LogError", func(t *testing.T) {
		var buf bytes.Buffer
		LogError(NewJSONLogger(&buf, slog.LevelInfo), "failed to load source", assert.AnError,
			slog.String("url", "data/may_daily.csv"))

		entry := lastEntry(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "failed to load source", entry["msg"])
		assert.Equal(t, assert.AnError.Error(), entry["error"])
		assert.Equal(t, "data/may_daily.csv", entry["url"])
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		LogOperation(NewJSONLogger(&buf, slog.LevelInfo), "source_loaded",
			slog.Int("records", 150),
			slog.Duration("duration", 0))

		entry := lastEntry(t, &buf)
		assert.Equal(t, "source_loaded", entry["msg"])
		assert.Equal(t, float64(150), entry["records"])
		assert.NotContains(t, entry, "duration")
	})

	t.Run("LogHTTPRequest picks the level from the status", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, slog.LevelInfo)

		levels := map[int]string{
			http.StatusOK:                  "INFO",
			http.StatusNotFound:            "WARN",
			http.StatusTooManyRequests:     "WARN",
			http.StatusInternalServerError: "ERROR",
		}
		for status, want := range levels {
			LogHTTPRequest(logger, status, 12, 1500*time.Microsecond, slog.String("user_agent", "test-client"))

			entry := lastEntry(t, &buf)
			assert.Equal(t, want, entry["level"], status)
			assert.Equal(t, "http_request", entry["msg"])
			assert.Equal(t, float64(status), entry["status"])
			assert.Equal(t, float64(12), entry["bytes"])
			assert.Equal(t, 1.5, entry["duration_ms"])
			assert.Equal(t, "test-client", entry["user_agent"])
		}
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		LogError(nil, "ignored", assert.AnError)
		LogOperation(nil, "ignored")
		LogHTTPRequest(nil, http.StatusOK, 0, 0)
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	stored := NewJSONLogger(&buf, slog.LevelInfo)
	fallback := Discard()

	assert.Same(t, stored, FromContext(WithLogger(context.Background(), stored), fallback))
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContext(context.Background(), nil))
}
