// Package service contains the business logic layer.
//
// Services accept primitives and models, never HTTP types, and return
// domain errors from apperror; handlers translate those to redirects,
// flash messages, or status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
	"github.com/nwhite/newswire/internal/validation"
)

// AccountService handles registration, login, and account edits.
type AccountService struct {
	users     repository.UserRepository
	follows   repository.FollowRepository
	passwords *auth.PasswordService
	validate  *validation.Validator
	logger    *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	passwords *auth.PasswordService,
	validate *validation.Validator,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		follows:   follows,
		passwords: passwords,
		validate:  validate,
		logger:    logger,
	}
}

// Register validates the email and password and creates the account. The
// repository's unique constraint reports an already-used email as a
// conflict; it is surfaced as a validation error on the email field so the
// form re-renders.
func (s *AccountService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if s.validate.Empty(email) || s.validate.Empty(password) {
		return nil, apperror.ValidationFailed("email", i18n.Get("form.emptyField"))
	}
	if !s.validate.Email(email) {
		return nil, apperror.ValidationFailed("email", i18n.Get("form.badEmail", email))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// Login checks an email/password pair. Wrong email and wrong password fail
// identically, with a localized message suitable for the login form.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if s.validate.Empty(email) || s.validate.Empty(password) {
		return nil, apperror.ValidationFailed("email", i18n.Get("form.emptyField"))
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, apperror.Unauthorized(i18n.Get("login.incorrect"))
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(i18n.Get("login.incorrect"))
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user, nil
}

// UpdateProfile sets the user's display name and bio. An empty name is
// stored as empty; rendering falls back to the default label.
func (s *AccountService) UpdateProfile(ctx context.Context, user *model.User, name, bio string) error {
	user.Name = strings.TrimSpace(name)
	user.Bio = strings.TrimSpace(bio)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("profile updated", slog.String("userID", user.ID))
	return nil
}

// UpdateSettings changes the user's email and, when newPassword is set,
// their password after verifying the old one.
func (s *AccountService) UpdateSettings(ctx context.Context, user *model.User, email, oldPassword, newPassword string) error {
	email = strings.TrimSpace(email)
	if !s.validate.Email(email) {
		return apperror.ValidationFailed("email", i18n.Get("form.badEmail", email))
	}

	if newPassword != "" {
		if s.passwords.Verify(user.PasswordHash, oldPassword) != nil {
			return apperror.ValidationFailed("oldPassword", i18n.Get("form.badPassword"))
		}
		hash, err := s.passwords.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("service/account: hashing new password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("settings updated", slog.String("userID", user.ID))
	return nil
}

// Profile returns a user and the topics they follow, for the profile view.
func (s *AccountService) Profile(ctx context.Context, userID string) (*model.User, []model.Topic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	topics, err := s.follows.TopicsByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("service/account: listing followed topics: %w", err)
	}
	return user, topics, nil
}
