package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/utils"
)

// responseWriter wraps http.ResponseWriter to capture status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// requestSession is the dashboard session named by the request cookie, if any.
func requestSession(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// NewRequestLoggingMiddleware gives every request its own logger, reachable through
// logging.FromContext, and logs the request once it completes.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logging.ForComponent(logger, logging.ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logging.RequestLogger(logger, r, utils.ClientIP(r), requestSession(r))

			r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logging.LogHTTPRequest(reqLogger, wrapped.statusCode, wrapped.bytes, time.Since(start),
				slog.String("user_agent", r.Header.Get("User-Agent")))
		})
	}
}
