package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

// VoteService is the vote ledger. A vote is a pure toggle: the first call
// for a (voter, update) pair records the vote, the second removes it. There
// is no vote direction and no per-user vote weight.
type VoteService struct {
	votes   repository.VoteRepository
	updates repository.UpdateRepository
	logger  *slog.Logger
}

// NewVoteService creates a VoteService.
func NewVoteService(votes repository.VoteRepository, updates repository.UpdateRepository, logger *slog.Logger) *VoteService {
	return &VoteService{votes: votes, updates: updates, logger: logger}
}

// Toggle flips the voter's vote on an update and returns the new state and
// the resulting total. Toggling a missing update is NotFound.
func (s *VoteService) Toggle(ctx context.Context, voter *model.User, updateID string) (voted bool, count int, err error) {
	if _, err := s.updates.GetByID(ctx, updateID); err != nil {
		return false, 0, apperror.NotFound(i18n.Get("update.notFound"))
	}

	voted, err = s.votes.Toggle(ctx, voter.ID, updateID)
	if err != nil {
		return false, 0, fmt.Errorf("service/vote: toggling: %w", err)
	}

	count, err = s.votes.Count(ctx, updateID)
	if err != nil {
		return false, 0, fmt.Errorf("service/vote: counting: %w", err)
	}

	s.logger.Info("vote toggled",
		slog.String("voterID", voter.ID),
		slog.String("updateID", updateID),
		slog.Bool("voted", voted),
	)
	return voted, count, nil
}

// Count returns the current vote total for an update.
func (s *VoteService) Count(ctx context.Context, updateID string) (int, error) {
	return s.votes.Count(ctx, updateID)
}

// HasVoted reports whether the voter currently has a vote on the update.
func (s *VoteService) HasVoted(ctx context.Context, voterID, updateID string) (bool, error) {
	return s.votes.HasVoted(ctx, voterID, updateID)
}
