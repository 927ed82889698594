package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
)

// AccountHandler serves registration, login, logout, and settings.
type AccountHandler struct {
	accounts *service.AccountService
	remember *auth.RememberCodec
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(
	accounts *service.AccountService,
	remember *auth.RememberCodec,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		remember: remember,
		tokens:   tokens,
		logger:   logger,
	}
}

type loginFormView struct {
	Error string `json:"error,omitempty"`
	Email string `json:"email,omitempty"`
}

// LoginForm renders the login view. The original URL flashed by a denied
// request is kept alive so the POST can replay it after a successful login.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Keep(session.KeyOriginalURL)

	writeJSON(w, http.StatusOK, loginFormView{
		Error: sess.PopFlash(session.KeyError),
		Email: sess.PopFlash("email"),
	})
}

// Login authenticates the form credentials. On success the session is bound
// to the user, an optional remember-me cookie is issued, and the browser is
// sent back to the URL it originally asked for. On failure the form is
// re-rendered with the error and the typed email.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := h.accounts.Login(r.Context(), email, password)
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
		sess.Flash("email", email)
		sess.Keep(session.KeyOriginalURL)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sess.Set(session.KeyUserID, user.ID)
	if r.PostFormValue("remember") == "on" {
		h.remember.SetRememberCookie(w, user.Email)
	}

	target := sess.PopFlash(session.KeyOriginalURL)
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type registerFormView struct {
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
	Email string `json:"email,omitempty"`
}

// RegisterForm renders the registration view.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, registerFormView{
		Error: sess.PopFlash(session.KeyError),
		Field: sess.PopFlash("field"),
		Email: sess.PopFlash("email"),
	})
}

// Register creates the account and logs the new user straight in.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	email := r.PostFormValue("email")

	user, err := h.accounts.Register(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
		sess.Flash("email", email)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	sess.Set(session.KeyUserID, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session and the remember-me cookie.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Clear()
	auth.ClearRememberCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type settingsView struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

// SettingsForm renders the account settings view.
func (h *AccountHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User

	writeJSON(w, http.StatusOK, settingsView{
		Email:   user.Email,
		Name:    user.Name,
		Bio:     user.Bio,
		Error:   sess.PopFlash(session.KeyError),
		Success: sess.PopFlash(session.KeySuccess),
	})
}

// Settings updates email and password.
func (h *AccountHandler) Settings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User

	err := h.accounts.UpdateSettings(r.Context(), user,
		r.PostFormValue("email"),
		r.PostFormValue("old_password"),
		r.PostFormValue("new_password"),
	)
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
	} else {
		sess.Flash(session.KeySuccess, i18n.Get("action.saved"))
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// ProfileEdit updates the caller's display name and bio.
func (h *AccountHandler) ProfileEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User

	err := h.accounts.UpdateProfile(r.Context(), user,
		r.PostFormValue("name"),
		r.PostFormValue("bio"),
	)
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
	} else {
		sess.Flash(session.KeySuccess, i18n.Get("action.saved"))
	}
	http.Redirect(w, r, "/u/"+user.ID, http.StatusSeeOther)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// APIToken exchanges credentials for a bearer token. This is the only API
// endpoint that accepts a password; everything else takes the token.
func (h *AccountHandler) APIToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
