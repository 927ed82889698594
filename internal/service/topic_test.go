package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/validation"
)

func newTopicFixture() (*TopicService, *memTopics, *memFollows) {
	follows := newMemFollows()
	topics := newMemTopics(follows)
	svc := NewTopicService(topics, follows, validation.New(), testLogger())
	return svc, topics, follows
}

func TestTopicCreate(t *testing.T) {
	svc, _, follows := newTopicFixture()
	ctx := context.Background()
	creator := &model.User{ID: "u1"}

	topic, err := svc.Create(ctx, "golang", creator)
	require.NoError(t, err)
	assert.NotEmpty(t, topic.ID)

	// Creating follows immediately.
	following, err := follows.IsFollowing(ctx, "u1", topic.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestTopicCreateValidation(t *testing.T) {
	svc, _, _ := newTopicFixture()
	ctx := context.Background()
	creator := &model.User{ID: "u1"}

	tests := []struct {
		name  string
		topic string
		want  error
	}{
		{"empty name", "", apperror.ErrValidation},
		{"punctuation", "c++", apperror.ErrValidation},
		{"double space", "two  spaces", apperror.ErrValidation},
		{"leading space trimmed then valid", "  golang  ", nil},
		{"reserved name", "everyone", apperror.ErrConflict},
		{"reserved name case-insensitive", "API", apperror.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.topic, creator)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestTopicCreateDuplicate(t *testing.T) {
	svc, _, _ := newTopicFixture()
	ctx := context.Background()
	creator := &model.User{ID: "u1"}

	_, err := svc.Create(ctx, "golang", creator)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "golang", creator)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestTopicFollowUnfollow(t *testing.T) {
	svc, _, _ := newTopicFixture()
	ctx := context.Background()
	creator := &model.User{ID: "u1"}
	bob := &model.User{ID: "u2"}

	topic, err := svc.Create(ctx, "golang", creator)
	require.NoError(t, err)

	require.NoError(t, svc.Follow(ctx, bob, "golang"))
	following, err := svc.IsFollowing(ctx, bob, topic)
	require.NoError(t, err)
	assert.True(t, following)

	// Doubly following stays a no-op.
	require.NoError(t, svc.Follow(ctx, bob, "golang"))

	require.NoError(t, svc.Unfollow(ctx, bob, "golang"))
	following, err = svc.IsFollowing(ctx, bob, topic)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestTopicFollowMissingTopic(t *testing.T) {
	svc, _, _ := newTopicFixture()

	err := svc.Follow(context.Background(), &model.User{ID: "u1"}, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTopicSearchExactOnly(t *testing.T) {
	svc, _, _ := newTopicFixture()
	ctx := context.Background()
	creator := &model.User{ID: "u1"}

	_, err := svc.Create(ctx, "golang", creator)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, "golang", found.Name)

	// Substrings don't match.
	_, err = svc.Search(ctx, "gol")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Search(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIsFollowingAnonymous(t *testing.T) {
	svc, _, _ := newTopicFixture()

	following, err := svc.IsFollowing(context.Background(), nil, &model.Topic{ID: "t1"})
	require.NoError(t, err)
	assert.False(t, following)
}
