package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nwhite/newswire/internal/repository"
)

// VoteRepo implements repository.VoteRepository.
type VoteRepo struct {
	conn *sql.DB
}

var _ repository.VoteRepository = (*VoteRepo)(nil)

// Toggle casts or retracts a vote. The existence check and the write run in
// one transaction: two concurrent toggles from the same voter serialize
// instead of both observing "no vote". The unique index on
// (voter_id, update_id) is the backstop either way.
//
// Returns true when the vote exists after the call.
func (r *VoteRepo) Toggle(ctx context.Context, voterID, updateID string) (bool, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning vote transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM votes WHERE voter_id = ? AND update_id = ?`,
		voterID,
		updateID,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (id, voter_id, update_id, created_at)
			 VALUES (?, ?, ?, ?)`,
			xid.New().String(),
			voterID,
			updateID,
			time.Now(),
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: inserting vote: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("sqlite: committing vote: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("sqlite: looking up vote: %w", err)

	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, existingID); err != nil {
			return false, fmt.Errorf("sqlite: deleting vote: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("sqlite: committing unvote: %w", err)
		}
		return false, nil
	}
}

// Count returns the live vote count for an update. Always computed from
// ledger rows; there is no cached counter anywhere.
func (r *VoteRepo) Count(ctx context.Context, updateID string) (int, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE update_id = ?`,
		updateID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting votes for update %s: %w", updateID, err)
	}
	return count, nil
}

// HasVoted reports whether the voter has an active vote on the update.
func (r *VoteRepo) HasVoted(ctx context.Context, voterID, updateID string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE voter_id = ? AND update_id = ?`,
		voterID,
		updateID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking vote: %w", err)
	}
	return count > 0, nil
}
