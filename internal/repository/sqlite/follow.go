package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

// FollowRepo implements repository.FollowRepository.
type FollowRepo struct {
	conn *sql.DB
}

var _ repository.FollowRepository = (*FollowRepo)(nil)

// Follow subscribes a user to a topic. INSERT OR IGNORE makes a duplicate
// follow a no-op against the (user_id, topic_id) unique index, so there is
// no check-then-insert window.
func (r *FollowRepo) Follow(ctx context.Context, userID, topicID string) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (id, user_id, topic_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		xid.New().String(),
		userID,
		topicID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting follow: %w", err)
	}
	return nil
}

// Unfollow removes a subscription. Removing a follow that doesn't exist is
// a no-op.
func (r *FollowRepo) Unfollow(ctx context.Context, userID, topicID string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = ? AND topic_id = ?`,
		userID,
		topicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether the user follows the topic.
func (r *FollowRepo) IsFollowing(ctx context.Context, userID, topicID string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE user_id = ? AND topic_id = ?`,
		userID,
		topicID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow: %w", err)
	}
	return count > 0, nil
}

// TopicIDs returns the IDs of the topics the user follows.
func (r *FollowRepo) TopicIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT topic_id FROM follows WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing followed topic IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning follow row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating follows: %w", err)
	}

	return ids, nil
}

// TopicsByUser returns the topics the user follows, newest first.
func (r *FollowRepo) TopicsByUser(ctx context.Context, userID string) ([]model.Topic, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_at
		 FROM topics t
		 JOIN follows f ON f.topic_id = t.id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing followed topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning followed topic row: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating followed topics: %w", err)
	}

	return topics, nil
}
