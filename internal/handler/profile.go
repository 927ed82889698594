package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
)

// ProfileHandler serves public user profiles.
type ProfileHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(accounts *service.AccountService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, logger: logger}
}

type profileView struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Bio     string        `json:"bio,omitempty"`
	Topics  []model.Topic `json:"topics"`
	Own     bool          `json:"own"`
	Success string        `json:"success,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// View renders a user's public profile with the topics they follow.
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	identity := auth.IdentityFromContext(r.Context())

	user, topics, err := h.accounts.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profileView{
		ID:      user.ID,
		Name:    user.DisplayName(),
		Bio:     user.Bio,
		Topics:  topics,
		Own:     identity.Authenticated() && identity.User.ID == user.ID,
		Success: sess.PopFlash(session.KeySuccess),
		Error:   sess.PopFlash(session.KeyError),
	})
}

type profileTopicsView struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Topics []model.Topic `json:"topics"`
}

// Topics renders just the followed-topics list for a user.
func (h *ProfileHandler) Topics(w http.ResponseWriter, r *http.Request) {
	user, topics, err := h.accounts.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profileTopicsView{
		ID:     user.ID,
		Name:   user.DisplayName(),
		Topics: topics,
	})
}
