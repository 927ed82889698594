package model

import "time"

// Topic is a named stream of updates. Names are unique and case-sensitive.
//
// Followers is a computed count populated by popularity queries; it is never
// stored — the follows table is always the source of truth.
type Topic struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Followers int       `json:"followers,omitempty" db:"-"`
}

// Follow is the user-to-topic subscription join. At most one row exists per
// (UserID, TopicID) pair.
type Follow struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	TopicID   string    `json:"topicId"   db:"topic_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
