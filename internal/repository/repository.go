// Package repository declares the storage interfaces implemented by the
// sqlite package. Services depend on these interfaces, never on a concrete
// store, so tests can substitute in-memory implementations.
package repository

import (
	"context"
	"time"

	"github.com/nwhite/newswire/internal/model"
)

// Page bounds a list query. Limit is the page size; Offset skips rows.
type Page struct {
	Limit  int
	Offset int
}

// UserRepository reads and writes user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// TopicRepository reads and writes topics.
//
// Create inserts the topic and the creator's follow in a single transaction:
// a topic is never left without a discoverable owner.
type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic, creatorID string) error
	GetByID(ctx context.Context, id string) (*model.Topic, error)
	GetByName(ctx context.Context, name string) (*model.Topic, error)
	ListNewest(ctx context.Context, page Page) ([]model.Topic, error)
	ListPopular(ctx context.Context, page Page) ([]model.Topic, error)
}

// FollowRepository manages user-to-topic subscriptions. Follow is a no-op
// when the pair already exists; Unfollow is a no-op when it doesn't.
type FollowRepository interface {
	Follow(ctx context.Context, userID, topicID string) error
	Unfollow(ctx context.Context, userID, topicID string) error
	IsFollowing(ctx context.Context, userID, topicID string) (bool, error)
	TopicIDs(ctx context.Context, userID string) ([]string, error)
	TopicsByUser(ctx context.Context, userID string) ([]model.Topic, error)
}

// UpdateRepository reads and writes topic updates.
//
// For the list methods, a nil topicIDs slice means "all topics"; an empty
// non-nil slice matches nothing. ListRecent orders by creation time
// descending. ListPopular considers only updates created after `since` and
// orders by live vote count descending, ties broken by creation time
// descending — the count is aggregated in the query, never cached.
type UpdateRepository interface {
	Create(ctx context.Context, update *model.Update) error
	GetByID(ctx context.Context, id string) (*model.Update, error)
	Delete(ctx context.Context, id string) error
	ListRecent(ctx context.Context, topicIDs []string, page Page) ([]model.Update, error)
	ListPopular(ctx context.Context, topicIDs []string, since time.Time, page Page) ([]model.Update, error)
}

// VoteRepository is the vote ledger.
//
// Toggle inserts a vote for (voterID, updateID) or deletes the existing one,
// inside a single transaction so concurrent toggles cannot race into a
// duplicate or a lost delete. It returns true when the vote now exists.
// Count is always computed live from ledger rows.
type VoteRepository interface {
	Toggle(ctx context.Context, voterID, updateID string) (bool, error)
	Count(ctx context.Context, updateID string) (int, error)
	HasVoted(ctx context.Context, voterID, updateID string) (bool, error)
}
