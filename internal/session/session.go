// Package session provides the server-side session and flash store.
//
// The browser holds only an opaque session ID in a cookie; all state lives
// on the server behind the Store interface. Flash values survive exactly one
// subsequent request — they carry the "login required" notice and the
// original/previous URL used for redirect-back behavior.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
)

// CookieName is the session cookie name.
const CookieName = "session"

// Well-known session and flash keys.
const (
	KeyUserID      = "user_id"
	KeyMobile      = "mobile"
	KeyOriginalURL = "original_url"
	KeyPreviousURL = "previous_url"
	KeyError       = "error"
	KeySuccess     = "success"
)

const defaultTTL = 7 * 24 * time.Hour

// state is one session's server-side record.
type state struct {
	values  map[string]string
	flash   map[string]string
	expires time.Time
}

// Manager owns the session store and cookie transport.
//
// The store is an in-process map guarded by a mutex. Sessions for a
// single-node deployment don't need anything more; the record store stays
// the only shared persistent state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*state
	ttl      time.Duration
}

// NewManager creates a Manager with the default TTL.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*state),
		ttl:      defaultTTL,
	}
}

// Session is a per-request handle. Value writes go straight to the store;
// flash reads come from the snapshot taken at Load time, so a flash value
// set during this request is only visible on the next one.
type Session struct {
	m        *Manager
	id       string
	incoming map[string]string
}

// Load resolves the request's session, creating a fresh one when the cookie
// is absent or stale. It also rotates flash state: stored flash values
// become this request's incoming flash and are cleared from the store.
func (m *Manager) Load(r *http.Request) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()

	if cookie, err := r.Cookie(CookieName); err == nil {
		if st, ok := m.sessions[cookie.Value]; ok && time.Now().Before(st.expires) {
			incoming := st.flash
			st.flash = make(map[string]string)
			st.expires = time.Now().Add(m.ttl)
			return &Session{m: m, id: cookie.Value, incoming: incoming}
		}
	}

	id := xid.New().String()
	m.sessions[id] = &state{
		values:  make(map[string]string),
		flash:   make(map[string]string),
		expires: time.Now().Add(m.ttl),
	}
	return &Session{m: m, id: id, incoming: map[string]string{}}
}

// WriteCookie sets the session cookie. Must be called before the response
// body is written; the ID never changes mid-request so this is safe to do
// up front.
func (m *Manager) WriteCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// pruneLocked drops expired sessions. Called with the lock held.
func (m *Manager) pruneLocked() {
	now := time.Now()
	for id, st := range m.sessions {
		if now.After(st.expires) {
			delete(m.sessions, id)
		}
	}
}

// ID returns the opaque session ID.
func (s *Session) ID() string {
	return s.id
}

// Get returns the session value for key, or "".
func (s *Session) Get(key string) string {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.sessions[s.id]; ok {
		return st.values[key]
	}
	return ""
}

// Set stores a session value.
func (s *Session) Set(key, value string) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.sessions[s.id]; ok {
		st.values[key] = value
	}
}

// Delete removes a session value.
func (s *Session) Delete(key string) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.sessions[s.id]; ok {
		delete(st.values, key)
	}
}

// Clear wipes all session values and pending flash. Used on logout.
func (s *Session) Clear() {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.sessions[s.id]; ok {
		st.values = make(map[string]string)
		st.flash = make(map[string]string)
	}
	s.incoming = map[string]string{}
}

// Flash stores a value visible on the next request only.
func (s *Session) Flash(key, value string) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if st, ok := s.m.sessions[s.id]; ok {
		st.flash[key] = value
	}
}

// PopFlash consumes an incoming flash value. Returns "" when absent.
func (s *Session) PopFlash(key string) string {
	v := s.incoming[key]
	delete(s.incoming, key)
	return v
}

// PeekFlash reads an incoming flash value without consuming it.
func (s *Session) PeekFlash(key string) string {
	return s.incoming[key]
}

// Keep re-flashes an incoming value so it survives one more request.
func (s *Session) Keep(key string) {
	if v, ok := s.incoming[key]; ok {
		s.Flash(key, v)
	}
}

type contextKey struct{}

// WithContext attaches the session to a context.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, or nil when the request did
// not pass through the dispatcher.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
