// Package dispatch is the per-request authorization gate.
//
// Every routed action is wrapped by Dispatcher.Dispatch, which runs a fixed
// sequence before the action body: load the session, resolve the caller's
// identity, evaluate the access policy, and only then invoke the handler.
// After the handler returns, the current URL is flashed as the previous URL
// so forms can redirect back. The ordering has no action-specific
// exceptions.
package dispatch

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/policy"
	"github.com/nwhite/newswire/internal/repository"
	"github.com/nwhite/newswire/internal/session"
)

// mobileAgents are user-agent fragments that enable the mobile site on a
// session's first request.
var mobileAgents = []string{"iPhone", "Android", "BlackBerry", "Mobile"}

// Dispatcher resolves identity and enforces policy for every request.
type Dispatcher struct {
	users    repository.UserRepository
	sessions *session.Manager
	remember *auth.RememberCodec
	tokens   *auth.TokenService
	table    policy.Table
	logger   *slog.Logger
}

// New creates a Dispatcher. tokens may be nil when the JSON API is disabled;
// bearer resolution is skipped in that case.
func New(
	users repository.UserRepository,
	sessions *session.Manager,
	remember *auth.RememberCodec,
	tokens *auth.TokenService,
	table policy.Table,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:    users,
		sessions: sessions,
		remember: remember,
		tokens:   tokens,
		table:    table,
		logger:   logger,
	}
}

// Dispatch wraps an action handler with the authorization sequence. The
// action name binds the route to its entry in the policy table.
func (d *Dispatcher) Dispatch(action policy.Action, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := d.sessions.Load(r)
		d.sessions.WriteCookie(w, sess)
		d.initMobile(sess, r)

		identity, redirected := d.resolve(w, r, sess)
		if redirected {
			return
		}

		ctx := auth.WithIdentity(r.Context(), identity)
		ctx = session.WithContext(ctx, sess)
		r = r.WithContext(ctx)

		switch d.table.Evaluate(action, identity.Authenticated()) {
		case policy.DenyToHome:
			if isAPI(r) {
				writeDenied(w, http.StatusForbidden, "forbidden")
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return

		case policy.DenyToLogin:
			if isAPI(r) {
				writeDenied(w, http.StatusUnauthorized, "authentication required")
				return
			}
			sess.Flash(session.KeyOriginalURL, currentURL(r))
			sess.Flash(session.KeyError, i18n.Get("login.loginRequired"))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next(w, r)

		// Remember where the visitor was, for redirect-back behavior on
		// the next request.
		sess.Flash(session.KeyPreviousURL, currentURL(r))
	}
}

// resolve builds the request identity, in order: session key, API bearer
// token, remember-me cookie. A valid remember-me cookie logs the session in
// and redirects back to the requested URL, since identity changed
// mid-request; resolve then reports redirected=true.
//
// Malformed cookies and bad signatures resolve to anonymous, silently.
func (d *Dispatcher) resolve(w http.ResponseWriter, r *http.Request, sess *session.Session) (auth.Identity, bool) {
	if userID := sess.Get(session.KeyUserID); userID != "" {
		user, err := d.users.GetByID(r.Context(), userID)
		if err == nil {
			return auth.Identity{User: user}, false
		}
		// Stale session key; treat as logged out.
		sess.Delete(session.KeyUserID)
	}

	if d.tokens != nil {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			userID, err := d.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err == nil {
				if user, err := d.users.GetByID(r.Context(), userID); err == nil {
					return auth.Identity{User: user}, false
				}
			}
			return auth.Anonymous, false
		}
	}

	if cookie, err := r.Cookie(auth.RememberCookie); err == nil {
		if email, ok := d.remember.Decode(cookie.Value); ok {
			user, err := d.users.GetByEmail(r.Context(), email)
			if err == nil {
				sess.Set(session.KeyUserID, user.ID)
				d.logger.Info("remember-me login",
					slog.String("userID", user.ID),
				)
				http.Redirect(w, r, currentURL(r), http.StatusSeeOther)
				return auth.Identity{User: user}, true
			}
		}
	}

	return auth.Anonymous, false
}

// initMobile sets the mobile-site flag on a session's first request by
// sniffing the user agent. Later requests keep whatever the visitor chose.
func (d *Dispatcher) initMobile(sess *session.Session, r *http.Request) {
	if sess.Get(session.KeyMobile) != "" {
		return
	}
	userAgent := r.Header.Get("User-Agent")
	for _, fragment := range mobileAgents {
		if strings.Contains(userAgent, fragment) {
			sess.Set(session.KeyMobile, "enabled")
			return
		}
	}
	sess.Set(session.KeyMobile, "disabled")
}

// currentURL returns the requested URL for GET requests, or the homepage
// otherwise — replaying a POST target after login would re-submit it.
func currentURL(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.RequestURI()
	}
	return "/"
}

// isAPI reports whether the request targets the JSON API, where denials are
// status codes rather than redirects.
func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
