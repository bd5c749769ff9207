package restapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"salesdash.senseiquotes.org/internal/utils"
)

// RateLimitMiddleware provides per-client rate limiting, keyed by remote IP.
type RateLimitMiddleware struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	rateLimit   rate.Limit
	burstSize   int
	idleAfter   time.Duration
	cleanupTick *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval per client, with a
// burst of the same size. A non-positive rate disables limiting.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*clientLimiter),
		rateLimit:   rate.Inf,
		burstSize:   ratePerInterval,
		idleAfter:   10 * time.Minute,
		cleanupTick: time.NewTicker(5 * time.Minute),
		done:        make(chan struct{}),
	}
	if ratePerInterval > 0 {
		rl.rateLimit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimitMiddleware) getLimiter(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[client] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// Handler is the HTTP middleware function
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	if rl.rateLimit == rate.Inf {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(utils.ClientIP(r)).Allow() {
			rl.sendRateLimitExceeded(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	retryAfter := time.Duration(float64(time.Second) / float64(rl.rateLimit))
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	writeError(w, r, nil, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
}

// cleanup drops limiters of clients that have been idle for a while.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTick.C:
			rl.mu.Lock()
			for client, cl := range rl.limiters {
				if time.Since(cl.lastSeen) > rl.idleAfter {
					delete(rl.limiters, client)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
