package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/model"
)

func TestUserCreateAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	user := createUser(t, db, "alice@example.com")
	require.NotEmpty(t, user.ID)

	byID, err := db.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := db.Users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := testDB(t)

	createUser(t, db, "alice@example.com")

	dup := &model.User{Email: "alice@example.com", PasswordHash: "hash"}
	err := db.Users.Create(context.Background(), dup)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUserGetMissing(t *testing.T) {
	db := testDB(t)

	_, err := db.Users.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = db.Users.GetByEmail(context.Background(), "nope@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	user := createUser(t, db, "alice@example.com")
	user.Name = "Alice"
	user.Bio = "hello"
	require.NoError(t, db.Users.Update(ctx, user))

	got, err := db.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "hello", got.Bio)
}

func TestUserUpdateMissing(t *testing.T) {
	db := testDB(t)

	ghost := &model.User{ID: "nope", Email: "ghost@example.com", PasswordHash: "hash"}
	err := db.Users.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
