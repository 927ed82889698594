package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user. The UNIQUE constraint on email is translated
// to a Conflict error so the service layer can re-render the form.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, bio, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Bio,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(i18n.Get("form.emailUsed", user.Email))
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, bio, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Bio,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(i18n.Get("profile.notFound"))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

// Update persists email, password hash, name, and bio changes.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, password_hash = ?, name = ?, bio = ?
		 WHERE id = ?`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Bio,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(i18n.Get("form.emailUsed", user.Email))
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(i18n.Get("profile.notFound"))
	}

	return nil
}

// isUniqueViolation detects SQLite UNIQUE constraint failures. The modernc
// driver surfaces them as string-typed errors, so we match on the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
