package restapi

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"salesdash.senseiquotes.org/internal/app"
	"salesdash.senseiquotes.org/internal/logging"
)

// sessionTTL is how long an idle dashboard session is kept.
const sessionTTL = 30 * time.Minute

type RestAPI struct {
	*app.Application
	sessions    *sessionStore
	rateLimiter *RateLimitMiddleware
	compress    func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter and session store
func NewRestAPI(app *app.Application) *RestAPI {
	compress, err := NewCompressionMiddleware(DefaultCompressionConfig())
	if err != nil {
		logging.LogError(app.Logger, "using default gzip settings", err)
		compress = func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) }
	}
	return &RestAPI{
		Application: app,
		sessions:    newSessionStore(app, sessionTTL),
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		compress:    compress,
	}
}

// Close stops the background cleanup of sessions and rate limiters.
func (api *RestAPI) Close() {
	api.sessions.Stop()
	api.rateLimiter.Stop()
}

// WithMiddleware wraps handler in the middleware every route shares. Requests are
// logged first so rate limited and compressed responses are logged too.
func (api *RestAPI) WithMiddleware(handler http.Handler) http.Handler {
	handler = api.rateLimiter.Handler(handler)
	handler = api.compress(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.Logger)(handler)
}
