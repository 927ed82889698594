package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

func TestTopicCreateAutoFollowsCreator(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice@example.com")
	topic := createTopic(t, db, "golang", alice.ID)

	following, err := db.Follows.IsFollowing(ctx, alice.ID, topic.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestTopicCreateDuplicateName(t *testing.T) {
	db := testDB(t)

	alice := createUser(t, db, "alice@example.com")
	createTopic(t, db, "golang", alice.ID)

	dup := &model.Topic{Name: "golang"}
	err := db.Topics.Create(context.Background(), dup, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestTopicGetByName(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice@example.com")
	topic := createTopic(t, db, "golang", alice.ID)

	got, err := db.Topics.GetByName(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, topic.ID, got.ID)

	_, err = db.Topics.GetByName(ctx, "rust")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTopicListNewest(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice@example.com")
	createTopic(t, db, "first", alice.ID)
	createTopic(t, db, "second", alice.ID)
	createTopic(t, db, "third", alice.ID)

	topics, err := db.Topics.ListNewest(ctx, repository.Page{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "third", topics[0].Name)
	assert.Equal(t, "second", topics[1].Name)

	rest, err := db.Topics.ListNewest(ctx, repository.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Name)
}

func TestTopicListPopularOrdersByFollowers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")

	quiet := createTopic(t, db, "quiet", alice.ID)
	busy := createTopic(t, db, "busy", alice.ID)
	require.NoError(t, db.Follows.Follow(ctx, bob.ID, busy.ID))
	require.NoError(t, db.Follows.Follow(ctx, carol.ID, busy.ID))

	topics, err := db.Topics.ListPopular(ctx, repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, busy.ID, topics[0].ID)
	assert.Equal(t, 3, topics[0].Followers)
	assert.Equal(t, quiet.ID, topics[1].ID)
	assert.Equal(t, 1, topics[1].Followers)
}
