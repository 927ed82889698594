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
	"github.com/nwhite/newswire/internal/sanitize"
	"github.com/nwhite/newswire/internal/validation"
)

// UpdateService manages posting and deleting updates.
type UpdateService struct {
	updates  repository.UpdateRepository
	topics   repository.TopicRepository
	votes    repository.VoteRepository
	validate *validation.Validator
	logger   *slog.Logger
}

// NewUpdateService creates an UpdateService.
func NewUpdateService(
	updates repository.UpdateRepository,
	topics repository.TopicRepository,
	votes repository.VoteRepository,
	validate *validation.Validator,
	logger *slog.Logger,
) *UpdateService {
	return &UpdateService{
		updates:  updates,
		topics:   topics,
		votes:    votes,
		validate: validate,
		logger:   logger,
	}
}

// Post creates an update in a topic. The content is sanitized before
// storage, and the author's own vote is recorded immediately so a fresh
// update starts at one vote.
func (s *UpdateService) Post(ctx context.Context, author *model.User, topicName, content, url string) (*model.Update, error) {
	content = strings.TrimSpace(content)
	if s.validate.Empty(content) {
		return nil, apperror.ValidationFailed("content", i18n.Get("form.emptyField"))
	}
	url = strings.TrimSpace(url)
	if url != "" && !s.validate.URL(url) {
		return nil, apperror.ValidationFailed("url", i18n.Get("form.badUrl"))
	}

	topic, err := s.topics.GetByName(ctx, topicName)
	if err != nil {
		return nil, apperror.NotFound(i18n.Get("topic.notFound"))
	}

	update := &model.Update{
		Content:  sanitize.Clean(content),
		URL:      url,
		AuthorID: author.ID,
		TopicID:  topic.ID,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}

	if _, err := s.votes.Toggle(ctx, author.ID, update.ID); err != nil {
		return nil, fmt.Errorf("service/update: recording author vote: %w", err)
	}
	update.Votes = 1

	s.logger.Info("update posted",
		slog.String("updateID", update.ID),
		slog.String("topicID", topic.ID),
		slog.String("authorID", author.ID),
	)
	return update, nil
}

// Get returns a single update with its live vote count.
func (s *UpdateService) Get(ctx context.Context, updateID string) (*model.Update, error) {
	update, err := s.updates.GetByID(ctx, updateID)
	if err != nil {
		return nil, apperror.NotFound(i18n.Get("update.notFound"))
	}
	return update, nil
}

// Delete removes an update. Only the author may delete their own updates;
// the update's votes go with it.
func (s *UpdateService) Delete(ctx context.Context, user *model.User, updateID string) error {
	update, err := s.updates.GetByID(ctx, updateID)
	if err != nil {
		return apperror.NotFound(i18n.Get("update.notFound"))
	}
	if update.AuthorID != user.ID {
		return apperror.Forbidden(i18n.Get("update.notYours"))
	}

	if err := s.updates.Delete(ctx, updateID); err != nil {
		return err
	}

	s.logger.Info("update deleted",
		slog.String("updateID", updateID),
		slog.String("userID", user.ID),
	)
	return nil
}
