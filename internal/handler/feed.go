package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
)

// FeedHandler serves the three feed scopes: everyone, the viewer's followed
// topics, and a single topic. The same handlers back the web routes and the
// /api/feed routes; both speak JSON.
type FeedHandler struct {
	feeds  *service.FeedService
	topics *service.TopicService
	logger *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feeds *service.FeedService, topics *service.TopicService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{feeds: feeds, topics: topics, logger: logger}
}

type feedView struct {
	Scope     string            `json:"scope"`
	Feed      *service.FeedPage `json:"feed"`
	Topic     *model.Topic      `json:"topic,omitempty"`
	Following bool              `json:"following,omitempty"`
	Viewer    string            `json:"viewer,omitempty"`
	Mobile    bool              `json:"mobile"`
	Error     string            `json:"error,omitempty"`
	Success   string            `json:"success,omitempty"`
}

// Home is the landing page: the "you" feed for a logged-in viewer, the
// everyone feed otherwise.
func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()).Authenticated() {
		h.serve(w, r, "you", nil)
		return
	}
	h.serve(w, r, "everyone", nil)
}

// Everyone serves the unfiltered feed across all topics.
func (h *FeedHandler) Everyone(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "everyone", nil)
}

// You serves the feed restricted to the viewer's followed topics.
func (h *FeedHandler) You(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "you", nil)
}

// Topic serves a single topic's feed.
func (h *FeedHandler) Topic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.topics.Get(r.Context(), chi.URLParam(r, "topic"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.serve(w, r, "topic", topic)
}

func (h *FeedHandler) serve(w http.ResponseWriter, r *http.Request, scope string, topic *model.Topic) {
	identity := auth.IdentityFromContext(r.Context())
	sess := session.FromContext(r.Context())

	var viewer *model.User
	if scope == "you" {
		viewer = identity.User
	}

	page, err := h.feeds.GetUpdates(r.Context(),
		viewer, topic,
		r.URL.Query().Get("order"),
		parseOffset(r),
	)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	view := feedView{
		Scope:   scope,
		Feed:    page,
		Topic:   topic,
		Mobile:  sess.Get(session.KeyMobile) == "enabled",
		Error:   sess.PopFlash(session.KeyError),
		Success: sess.PopFlash(session.KeySuccess),
	}
	if identity.Authenticated() {
		view.Viewer = identity.User.DisplayName()
		if topic != nil {
			following, err := h.topics.IsFollowing(r.Context(), identity.User, topic)
			if err != nil {
				writeError(w, h.logger, err)
				return
			}
			view.Following = following
		}
	}

	writeJSON(w, http.StatusOK, view)
}

// MobileToggle flips the mobile-site flag and sends the visitor back where
// they were.
func (h *FeedHandler) MobileToggle(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess.Get(session.KeyMobile) == "enabled" {
		sess.Set(session.KeyMobile, "disabled")
	} else {
		sess.Set(session.KeyMobile, "enabled")
	}
	http.Redirect(w, r, backURL(sess), http.StatusSeeOther)
}

// parseOffset reads the offset query parameter; anything unparseable is 0.
func parseOffset(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		return 0
	}
	return n
}

// backURL is where post-action redirects land: the URL the visitor was on
// before this request, or the homepage.
func backURL(sess *session.Session) string {
	if prev := sess.PeekFlash(session.KeyPreviousURL); prev != "" {
		return prev
	}
	return "/"
}
