package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

// Feed orderings.
const (
	OrderRecent     = "recent"
	OrderPopular    = "popular"
	OrderPopular24h = "popular24h"
	OrderPopular7d  = "popular7d"
)

// Popularity windows. Votes older than the window don't count toward the
// popular orderings.
const (
	windowDay  = 24 * time.Hour
	windowWeek = 7 * 24 * time.Hour
)

// FeedConfig tunes the feed engine.
type FeedConfig struct {
	// PageSize is the number of updates per page. Defaults to 10.
	PageSize int
	// DefaultOrder is used when a request carries no ordering, or an
	// unknown one. Defaults to "recent".
	DefaultOrder string
}

// FeedPage is one page of a feed plus its pagination metadata.
type FeedPage struct {
	Updates []model.Update `json:"updates"`
	Order   string         `json:"order"`
	Offset  int            `json:"offset"`
	Count   int            `json:"count"`
	// Lower and Upper are the 1-based positions of the first and last
	// update on the page; both are 0 for an empty page.
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	// PrevOffset is the offset of the previous page, clamped to 0.
	PrevOffset int  `json:"prevOffset"`
	HasPrev    bool `json:"hasPrev"`

	full bool
}

// NextOffset is the offset for the following page.
func (p *FeedPage) NextOffset() int {
	return p.Offset + p.Count
}

// HasNext reports whether a following page may exist. Only a full page can
// have one.
func (p *FeedPage) HasNext() bool {
	return p.full
}

// FeedService assembles pages of updates for the three feed scopes: a
// single topic, the viewer's followed topics, or everything.
type FeedService struct {
	updates repository.UpdateRepository
	follows repository.FollowRepository
	cfg     FeedConfig
	logger  *slog.Logger

	// now is injectable for tests of the popularity windows.
	now func() time.Time
}

// NewFeedService creates a FeedService, filling config defaults.
func NewFeedService(
	updates repository.UpdateRepository,
	follows repository.FollowRepository,
	cfg FeedConfig,
	logger *slog.Logger,
) *FeedService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if !validOrder(cfg.DefaultOrder) {
		cfg.DefaultOrder = OrderRecent
	}
	return &FeedService{
		updates: updates,
		follows: follows,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// PageSize returns the configured page size.
func (s *FeedService) PageSize() int {
	return s.cfg.PageSize
}

// GetUpdates returns one feed page. Scope selection: a non-nil topic limits
// the feed to that topic; otherwise a non-nil viewer limits it to the
// topics they follow; otherwise the feed spans everything. Unknown orders
// fall back to the default, and negative offsets are clamped to 0 — bad
// pagination input never errors.
func (s *FeedService) GetUpdates(ctx context.Context, viewer *model.User, topic *model.Topic, order string, offset int) (*FeedPage, error) {
	if !validOrder(order) {
		order = s.cfg.DefaultOrder
	}
	if offset < 0 {
		offset = 0
	}

	var topicIDs []string
	switch {
	case topic != nil:
		topicIDs = []string{topic.ID}
	case viewer != nil:
		ids, err := s.follows.TopicIDs(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("service/feed: listing followed topics: %w", err)
		}
		// A viewer following nothing gets an empty feed, not an error.
		topicIDs = ids
		if topicIDs == nil {
			topicIDs = []string{}
		}
	}

	page := repository.Page{Limit: s.cfg.PageSize, Offset: offset}

	var (
		updates []model.Update
		err     error
	)
	switch order {
	case OrderRecent:
		updates, err = s.updates.ListRecent(ctx, topicIDs, page)
	case OrderPopular24h:
		updates, err = s.updates.ListPopular(ctx, topicIDs, s.now().Add(-windowDay), page)
	default: // OrderPopular, OrderPopular7d
		updates, err = s.updates.ListPopular(ctx, topicIDs, s.now().Add(-windowWeek), page)
	}
	if err != nil {
		return nil, fmt.Errorf("service/feed: listing updates: %w", err)
	}

	return s.buildPage(updates, order, offset), nil
}

func (s *FeedService) buildPage(updates []model.Update, order string, offset int) *FeedPage {
	p := &FeedPage{
		Updates: updates,
		Order:   order,
		Offset:  offset,
		Count:   len(updates),
		full:    len(updates) == s.cfg.PageSize,
	}
	if p.Count > 0 {
		p.Lower = offset + 1
		p.Upper = offset + p.Count
	}
	p.PrevOffset = offset - s.cfg.PageSize
	if p.PrevOffset < 0 {
		p.PrevOffset = 0
	}
	p.HasPrev = offset > 0
	return p
}

func validOrder(order string) bool {
	switch order {
	case OrderRecent, OrderPopular, OrderPopular24h, OrderPopular7d:
		return true
	}
	return false
}
