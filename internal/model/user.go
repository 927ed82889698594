// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is unique. Name is optional — an empty
// name means the rendering layer falls back to a default label, so we keep
// the zero value rather than a nullable pointer. PasswordHash is a bcrypt
// hash; the plaintext password never leaves the auth package.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Name         string    `json:"name"      db:"name"`
	Bio          string    `json:"bio"       db:"bio"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// DisplayName returns the user's name, or their email address when no name
// has been set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
