package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwhite/newswire/internal/model"
)

// testDB opens a fresh in-memory database per test.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Users.Create(context.Background(), user))
	return user
}

func createTopic(t *testing.T, db *DB, name, creatorID string) *model.Topic {
	t.Helper()

	topic := &model.Topic{Name: name}
	require.NoError(t, db.Topics.Create(context.Background(), topic, creatorID))
	return topic
}

func createUpdate(t *testing.T, db *DB, authorID, topicID, content string) *model.Update {
	t.Helper()

	update := &model.Update{
		Content:  content,
		AuthorID: authorID,
		TopicID:  topicID,
	}
	require.NoError(t, db.Updates.Create(context.Background(), update))
	return update
}
