package model

import "time"

// Vote records that a user voted on an update. Votes are a pure toggle:
// at most one row exists per (VoterID, UpdateID), and casting again removes
// it. There is no direction field — no downvotes.
type Vote struct {
	ID        string    `json:"id"        db:"id"`
	VoterID   string    `json:"voterId"   db:"voter_id"`
	UpdateID  string    `json:"updateId"  db:"update_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
