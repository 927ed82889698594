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

func newUpdateFixture() (*UpdateService, *memUpdates, *memTopics, *memVotes) {
	follows := newMemFollows()
	topics := newMemTopics(follows)
	updates := newMemUpdates()
	votes := newMemVotes()
	svc := NewUpdateService(updates, topics, votes, validation.New(), testLogger())
	return svc, updates, topics, votes
}

func seedTopic(t *testing.T, topics *memTopics, name string) *model.Topic {
	t.Helper()
	topic := &model.Topic{Name: name}
	require.NoError(t, topics.Create(context.Background(), topic, "creator"))
	return topic
}

func TestPostUpdate(t *testing.T) {
	svc, _, topics, votes := newUpdateFixture()
	ctx := context.Background()
	author := &model.User{ID: "u1"}
	seedTopic(t, topics, "golang")

	update, err := svc.Post(ctx, author, "golang", "hello world", "")
	require.NoError(t, err)
	assert.NotEmpty(t, update.ID)

	// The author's own vote lands with the post.
	has, err := votes.HasVoted(ctx, author.ID, update.ID)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 1, update.Votes)
}

func TestPostUpdateSanitizesContent(t *testing.T) {
	svc, _, topics, _ := newUpdateFixture()
	ctx := context.Background()
	seedTopic(t, topics, "golang")

	update, err := svc.Post(ctx, &model.User{ID: "u1"}, "golang",
		`<script>alert(1)</script> <b>fine`, "")
	require.NoError(t, err)

	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt; <b>fine</b>", update.Content)
}

func TestPostUpdateValidation(t *testing.T) {
	svc, _, topics, _ := newUpdateFixture()
	ctx := context.Background()
	author := &model.User{ID: "u1"}
	seedTopic(t, topics, "golang")

	_, err := svc.Post(ctx, author, "golang", "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Post(ctx, author, "golang", "content", "not a url")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// URL is optional.
	_, err = svc.Post(ctx, author, "golang", "content", "https://example.com/story")
	assert.NoError(t, err)
}

func TestPostUpdateMissingTopic(t *testing.T) {
	svc, _, _, _ := newUpdateFixture()

	_, err := svc.Post(context.Background(), &model.User{ID: "u1"}, "ghost", "content", "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUpdateAuthorOnly(t *testing.T) {
	svc, _, topics, _ := newUpdateFixture()
	ctx := context.Background()
	author := &model.User{ID: "u1"}
	stranger := &model.User{ID: "u2"}
	seedTopic(t, topics, "golang")

	update, err := svc.Post(ctx, author, "golang", "mine", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, stranger, update.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, author, update.ID))

	_, err = svc.Get(ctx, update.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteMissingUpdate(t *testing.T) {
	svc, _, _, _ := newUpdateFixture()

	err := svc.Delete(context.Background(), &model.User{ID: "u1"}, "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
