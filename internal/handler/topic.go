package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
)

// topicPageSize is the number of topics per listing page.
const topicPageSize = 25

// TopicHandler serves topic browsing, creation, and follow management.
type TopicHandler struct {
	topics *service.TopicService
	logger *slog.Logger
}

// NewTopicHandler creates a TopicHandler.
func NewTopicHandler(topics *service.TopicService, logger *slog.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, logger: logger}
}

type topicListView struct {
	Topics []model.Topic `json:"topics"`
	Order  string        `json:"order"`
	Offset int           `json:"offset"`
}

// List serves the topic directory, newest first by default or by follower
// count with ?order=popular.
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	page := repository.Page{Limit: topicPageSize, Offset: offset}

	var (
		topics []model.Topic
		err    error
	)
	if order == "popular" {
		topics, err = h.topics.ListPopular(r.Context(), page)
	} else {
		order = "newest"
		topics, err = h.topics.ListNewest(r.Context(), page)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, topicListView{Topics: topics, Order: order, Offset: offset})
}

type topicFormView struct {
	Error string `json:"error,omitempty"`
	Name  string `json:"name,omitempty"`
}

// NewForm renders the new-topic view.
func (h *TopicHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, topicFormView{
		Error: sess.PopFlash(session.KeyError),
		Name:  sess.PopFlash("name"),
	})
}

// Create makes a new topic. The creator follows it automatically and lands
// on its feed.
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/topics/new", http.StatusSeeOther)
		return
	}
	sess := session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User
	name := r.PostFormValue("name")

	topic, err := h.topics.Create(r.Context(), name, user)
	if err != nil {
		sess.Flash(session.KeyError, userMessage(err))
		sess.Flash("name", name)
		http.Redirect(w, r, "/topics/new", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, topicPath(topic.Name), http.StatusSeeOther)
}

// Follow subscribes the caller to the topic.
func (h *TopicHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, true)
}

// Unfollow removes the caller's subscription.
func (h *TopicHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.setFollow(w, r, false)
}

func (h *TopicHandler) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	_ = session.FromContext(r.Context())
	user := auth.IdentityFromContext(r.Context()).User
	name := chi.URLParam(r, "topic")

	var err error
	if follow {
		err = h.topics.Follow(r.Context(), user, name)
	} else {
		err = h.topics.Unfollow(r.Context(), user, name)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.Redirect(w, r, topicPath(name), http.StatusSeeOther)
}

type searchView struct {
	Query  string        `json:"query"`
	Topics []model.Topic `json:"topics"`
}

// Search looks a topic up by exact name and jumps to its feed when found.
// A miss renders an empty result list rather than an error page.
func (h *TopicHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	topic, err := h.topics.Search(r.Context(), query)
	if err != nil {
		writeJSON(w, http.StatusOK, searchView{Query: query, Topics: []model.Topic{}})
		return
	}

	http.Redirect(w, r, topicPath(topic.Name), http.StatusSeeOther)
}

func topicPath(name string) string {
	return "/t/" + url.PathEscape(name)
}
