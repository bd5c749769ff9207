package restapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"salesdash.senseiquotes.org/internal/app"
	"salesdash.senseiquotes.org/internal/dashboard"
)

// SessionCookie carries the id of a browser's dashboard session.
const SessionCookie = "salesdash_session"

// session is one browser's dashboard: a controller rendering into a board.
type session struct {
	id         string
	controller *dashboard.Controller
	board      *dashboard.Board
	lastSeen   time.Time
}

type sessionStore struct {
	app      *app.Application
	ttl      time.Duration
	mu       sync.Mutex
	sessions map[string]*session
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func newSessionStore(app *app.Application, ttl time.Duration) *sessionStore {
	s := &sessionStore{
		app:      app,
		ttl:      ttl,
		sessions: make(map[string]*session),
		ticker:   time.NewTicker(ttl / 2),
		done:     make(chan struct{}),
	}
	go s.expire()
	return s
}

// get returns the session named by the request cookie. Unknown or missing ids get a
// fresh session and a new cookie.
func (s *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = time.Now()
			return sess
		}
	}

	id := uuid.NewString()
	board := dashboard.NewBoard()
	logger := s.app.Logger.With(slog.String("session", id))
	sess := &session{
		id:         id,
		controller: dashboard.New(s.app.DashboardConfig(), s.app.Sources, board, board, logger),
		board:      board,
		lastSeen:   time.Now(),
	}
	s.sessions[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return sess
}

// lookup returns an existing session without creating one.
func (s *sessionStore) lookup(r *http.Request) (*session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[c.Value]
	if ok {
		sess.lastSeen = time.Now()
	}
	return sess, ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) expire() {
	for {
		select {
		case <-s.done:
			return
		case now := <-s.ticker.C:
			s.prune(now)
		}
	}
}

func (s *sessionStore) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}
