package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
	"github.com/nwhite/newswire/internal/validation"
)

// reservedTopicNames are names that collide with routes or feed scopes and
// can never be created as topics.
var reservedTopicNames = map[string]struct{}{
	"you":      {},
	"everyone": {},
	"new":      {},
	"recent":   {},
	"popular":  {},
	"search":   {},
	"api":      {},
	"login":    {},
	"register": {},
	"settings": {},
	"profile":  {},
	"topics":   {},
}

// TopicService manages topics and follow relationships.
type TopicService struct {
	topics   repository.TopicRepository
	follows  repository.FollowRepository
	validate *validation.Validator
	logger   *slog.Logger
}

// NewTopicService creates a TopicService.
func NewTopicService(
	topics repository.TopicRepository,
	follows repository.FollowRepository,
	validate *validation.Validator,
	logger *slog.Logger,
) *TopicService {
	return &TopicService{
		topics:   topics,
		follows:  follows,
		validate: validate,
		logger:   logger,
	}
}

// Create validates the name and creates the topic. The creator follows the
// new topic immediately; both rows are written in one transaction by the
// repository. Reserved names are reported the same way as taken names.
func (s *TopicService) Create(ctx context.Context, name string, creator *model.User) (*model.Topic, error) {
	name = strings.TrimSpace(name)
	if s.validate.Empty(name) {
		return nil, apperror.ValidationFailed("name", i18n.Get("form.emptyField"))
	}
	if !s.validate.TopicName(name) {
		return nil, apperror.ValidationFailed("name", i18n.Get("form.badTopicName"))
	}
	if _, reserved := reservedTopicNames[strings.ToLower(name)]; reserved {
		return nil, apperror.Conflict(i18n.Get("topic.exists"))
	}

	topic := &model.Topic{Name: name}
	if err := s.topics.Create(ctx, topic, creator.ID); err != nil {
		return nil, err
	}

	s.logger.Info("topic created",
		slog.String("topicID", topic.ID),
		slog.String("name", topic.Name),
	)
	return topic, nil
}

// Get returns a topic by name.
func (s *TopicService) Get(ctx context.Context, name string) (*model.Topic, error) {
	topic, err := s.topics.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NotFound(i18n.Get("topic.notFound"))
	}
	return topic, nil
}

// Follow subscribes the user to a topic. Following an already-followed
// topic is a no-op.
func (s *TopicService) Follow(ctx context.Context, user *model.User, topicName string) error {
	topic, err := s.Get(ctx, topicName)
	if err != nil {
		return err
	}
	if err := s.follows.Follow(ctx, user.ID, topic.ID); err != nil {
		return fmt.Errorf("service/topic: following: %w", err)
	}
	s.logger.Info("topic followed",
		slog.String("userID", user.ID),
		slog.String("topicID", topic.ID),
	)
	return nil
}

// Unfollow removes the user's subscription. Unfollowing a topic the user
// does not follow is a no-op.
func (s *TopicService) Unfollow(ctx context.Context, user *model.User, topicName string) error {
	topic, err := s.Get(ctx, topicName)
	if err != nil {
		return err
	}
	if err := s.follows.Unfollow(ctx, user.ID, topic.ID); err != nil {
		return fmt.Errorf("service/topic: unfollowing: %w", err)
	}
	return nil
}

// IsFollowing reports whether the user follows the topic.
func (s *TopicService) IsFollowing(ctx context.Context, user *model.User, topic *model.Topic) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.follows.IsFollowing(ctx, user.ID, topic.ID)
}

// ListNewest returns topics ordered by creation time, newest first.
func (s *TopicService) ListNewest(ctx context.Context, page repository.Page) ([]model.Topic, error) {
	return s.topics.ListNewest(ctx, page)
}

// ListPopular returns topics ordered by follower count.
func (s *TopicService) ListPopular(ctx context.Context, page repository.Page) ([]model.Topic, error) {
	return s.topics.ListPopular(ctx, page)
}

// Search looks up a topic by exact name. Matching is by full name only;
// there is no substring or fuzzy search.
func (s *TopicService) Search(ctx context.Context, query string) (*model.Topic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NotFound(i18n.Get("topic.notFound"))
	}
	return s.Get(ctx, query)
}
