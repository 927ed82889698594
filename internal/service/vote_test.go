package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/model"
)

func newVoteFixture(t *testing.T) (*VoteService, *model.Update) {
	t.Helper()

	updates := newMemUpdates()
	votes := newMemVotes()
	update := &model.Update{Content: "votable", AuthorID: "author", TopicID: "t1"}
	require.NoError(t, updates.Create(context.Background(), update))

	return NewVoteService(votes, updates, testLogger()), update
}

func TestVoteToggleRoundTrip(t *testing.T) {
	svc, update := newVoteFixture(t)
	ctx := context.Background()
	voter := &model.User{ID: "u1"}

	voted, count, err := svc.Toggle(ctx, voter, update.ID)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, count)

	voted, count, err = svc.Toggle(ctx, voter, update.ID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, 0, count)
}

func TestVoteToggleMissingUpdate(t *testing.T) {
	svc, _ := newVoteFixture(t)

	_, _, err := svc.Toggle(context.Background(), &model.User{ID: "u1"}, "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestVoteCountAccumulatesAcrossVoters(t *testing.T) {
	svc, update := newVoteFixture(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		_, _, err := svc.Toggle(ctx, &model.User{ID: id}, update.ID)
		require.NoError(t, err)
	}

	count, err := svc.Count(ctx, update.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
