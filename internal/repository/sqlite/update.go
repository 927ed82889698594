package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/i18n"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

// UpdateRepo implements repository.UpdateRepository.
type UpdateRepo struct {
	conn *sql.DB
}

var _ repository.UpdateRepository = (*UpdateRepo)(nil)

// Create inserts a new update.
func (r *UpdateRepo) Create(ctx context.Context, update *model.Update) error {
	update.ID = xid.New().String()
	update.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO updates (id, content, url, author_id, topic_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		update.ID,
		update.Content,
		update.URL,
		update.AuthorID,
		update.TopicID,
		update.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting update: %w", err)
	}

	return nil
}

// GetByID retrieves an update, including its live vote count.
func (r *UpdateRepo) GetByID(ctx context.Context, id string) (*model.Update, error) {
	var u model.Update

	err := r.conn.QueryRowContext(ctx,
		`SELECT u.id, u.content, u.url, u.author_id, u.topic_id, u.created_at,
		        (SELECT COUNT(*) FROM votes v WHERE v.update_id = u.id) AS votes
		 FROM updates u
		 WHERE u.id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Content,
		&u.URL,
		&u.AuthorID,
		&u.TopicID,
		&u.CreatedAt,
		&u.Votes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(i18n.Get("update.notFound"))
		}
		return nil, fmt.Errorf("sqlite: getting update %s: %w", id, err)
	}

	return &u, nil
}

// Delete removes an update and its votes.
func (r *UpdateRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE update_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting votes for update %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM updates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting update %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(i18n.Get("update.notFound"))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete transaction: %w", err)
	}
	return nil
}

// ListRecent returns updates newest-first. A nil topicIDs means all topics;
// an empty slice matches nothing.
func (r *UpdateRepo) ListRecent(ctx context.Context, topicIDs []string, page repository.Page) ([]model.Update, error) {
	if topicIDs != nil && len(topicIDs) == 0 {
		return []model.Update{}, nil
	}

	query := `SELECT u.id, u.content, u.url, u.author_id, u.topic_id, u.created_at,
	                 (SELECT COUNT(*) FROM votes v WHERE v.update_id = u.id) AS votes
	          FROM updates u`
	args := []any{}
	if topicIDs != nil {
		query += ` WHERE u.topic_id IN (` + inPlaceholders(len(topicIDs)) + `)`
		for _, id := range topicIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY u.created_at DESC, u.id DESC LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	return r.listUpdates(ctx, query, args)
}

// ListPopular returns updates created after `since`, ordered by live vote
// count descending. Ties break by creation time descending, then ID, so
// pagination over equal counts is stable. The aggregation happens here in
// SQL rather than by loading the window into memory.
func (r *UpdateRepo) ListPopular(ctx context.Context, topicIDs []string, since time.Time, page repository.Page) ([]model.Update, error) {
	if topicIDs != nil && len(topicIDs) == 0 {
		return []model.Update{}, nil
	}

	query := `SELECT u.id, u.content, u.url, u.author_id, u.topic_id, u.created_at,
	                 COUNT(v.id) AS votes
	          FROM updates u
	          LEFT JOIN votes v ON v.update_id = u.id
	          WHERE u.created_at > ?`
	args := []any{since}
	if topicIDs != nil {
		query += ` AND u.topic_id IN (` + inPlaceholders(len(topicIDs)) + `)`
		for _, id := range topicIDs {
			args = append(args, id)
		}
	}
	query += ` GROUP BY u.id
	           ORDER BY votes DESC, u.created_at DESC, u.id DESC
	           LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	return r.listUpdates(ctx, query, args)
}

func (r *UpdateRepo) listUpdates(ctx context.Context, query string, args []any) ([]model.Update, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing updates: %w", err)
	}
	defer rows.Close()

	updates := []model.Update{}
	for rows.Next() {
		var u model.Update
		if err := rows.Scan(
			&u.ID, &u.Content, &u.URL, &u.AuthorID, &u.TopicID,
			&u.CreatedAt, &u.Votes,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning update row: %w", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating updates: %w", err)
	}

	return updates, nil
}
