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

// TopicRepo implements repository.TopicRepository.
type TopicRepo struct {
	conn *sql.DB
}

var _ repository.TopicRepository = (*TopicRepo)(nil)

// Create inserts the topic and the creator's follow in one transaction.
// Either both rows land or neither does — no orphaned topics.
func (r *TopicRepo) Create(ctx context.Context, topic *model.Topic, creatorID string) error {
	topic.ID = xid.New().String()
	topic.CreatedAt = time.Now()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning topic transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO topics (id, name, created_at) VALUES (?, ?, ?)`,
		topic.ID,
		topic.Name,
		topic.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(i18n.Get("topic.exists"))
		}
		return fmt.Errorf("sqlite: inserting topic %q: %w", topic.Name, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO follows (id, user_id, topic_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		xid.New().String(),
		creatorID,
		topic.ID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting creator follow: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing topic transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a topic by ID.
func (r *TopicRepo) GetByID(ctx context.Context, id string) (*model.Topic, error) {
	return r.getTopic(ctx, `WHERE id = ?`, id)
}

// GetByName retrieves a topic by its unique name. Matching is
// case-sensitive, like the uniqueness constraint.
func (r *TopicRepo) GetByName(ctx context.Context, name string) (*model.Topic, error) {
	return r.getTopic(ctx, `WHERE name = ?`, name)
}

func (r *TopicRepo) getTopic(ctx context.Context, where string, arg any) (*model.Topic, error) {
	var t model.Topic

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM topics `+where,
		arg,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(i18n.Get("topic.notFound"))
		}
		return nil, fmt.Errorf("sqlite: getting topic: %w", err)
	}

	return &t, nil
}

// ListNewest returns topics by creation time, newest first.
func (r *TopicRepo) ListNewest(ctx context.Context, page repository.Page) ([]model.Topic, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, created_at
		 FROM topics
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		page.Limit,
		page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing newest topics: %w", err)
	}
	defer rows.Close()

	topics := make([]model.Topic, 0, page.Limit)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning topic row: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating topics: %w", err)
	}

	return topics, nil
}

// ListPopular returns topics ordered by follower count, computed live from
// the follows table. Ties break by creation time, newest first.
func (r *TopicRepo) ListPopular(ctx context.Context, page repository.Page) ([]model.Topic, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_at, COUNT(f.id) AS followers
		 FROM topics t
		 LEFT JOIN follows f ON f.topic_id = t.id
		 GROUP BY t.id
		 ORDER BY followers DESC, t.created_at DESC
		 LIMIT ? OFFSET ?`,
		page.Limit,
		page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing popular topics: %w", err)
	}
	defer rows.Close()

	topics := make([]model.Topic, 0, page.Limit)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.Followers); err != nil {
			return nil, fmt.Errorf("sqlite: scanning popular topic row: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating popular topics: %w", err)
	}

	return topics, nil
}
