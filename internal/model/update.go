package model

import "time"

// Update is a time-stamped post to a topic.
//
// Content is stored already sanitized (escaped entities, allow-listed tags
// closed). URL is optional — empty string means no link. Votes is a computed
// count populated by feed queries; the votes table is always authoritative.
type Update struct {
	ID        string    `json:"id"        db:"id"`
	Content   string    `json:"content"   db:"content"`
	URL       string    `json:"url,omitempty" db:"url"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	TopicID   string    `json:"topicId"   db:"topic_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Votes     int       `json:"votes"     db:"-"`
}

// HasURL reports whether a link is attached to this update.
func (u *Update) HasURL() bool {
	return u.URL != ""
}
