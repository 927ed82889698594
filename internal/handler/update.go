package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
)

// UpdateHandler serves posting and deleting updates, and vote toggling in
// both its web (redirect) and API (JSON) forms.
type UpdateHandler struct {
	updates *service.UpdateService
	votes   *service.VoteService
	logger  *slog.Logger
}

// NewUpdateHandler creates an UpdateHandler.
func NewUpdateHandler(updates *service.UpdateService, votes *service.VoteService, logger *slog.Logger) *UpdateHandler {
	return &UpdateHandler{updates: updates, votes: votes, logger: logger}
}

// Post creates an update in the topic from the URL. Validation failures
// bounce back to the topic feed with the error flashed; success flashes a
// confirmation instead.
func (h *UpdateHandler) Post(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User
	name := chi.URLParam(r, "topic")

	_, err := h.updates.Post(r.Context(), user, name,
		r.PostFormValue("content"),
		r.PostFormValue("url"),
	)
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
	} else {
		sess.Flash(session.KeySuccess, i18n.Get("topic.updateAdded"))
	}
	http.Redirect(w, r, topicPath(name), http.StatusSeeOther)
}

// Delete removes one of the caller's own updates.
func (h *UpdateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User

	if err := h.updates.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		sess.Flash(session.KeyError, userMessage(err))
	}
	http.Redirect(w, r, backURL(sess), http.StatusSeeOther)
}

// VoteToggle flips the caller's vote and sends them back to the feed they
// voted from.
func (h *UpdateHandler) VoteToggle(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User

	if _, _, err := h.votes.Toggle(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		sess.Flash(session.KeyError, userMessage(err))
	}
	http.Redirect(w, r, backURL(sess), http.StatusSeeOther)
}

type voteView struct {
	Voted bool `json:"voted"`
	Votes int  `json:"votes"`
}

// APIVoteToggle is the asynchronous vote endpoint: same toggle, but the
// result comes back as JSON instead of a redirect.
func (h *UpdateHandler) APIVoteToggle(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context()).User

	voted, votes, err := h.votes.Toggle(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, voteView{Voted: voted, Votes: votes})
}
