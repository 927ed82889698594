// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so no
// CGo and no C toolchain. Use ":memory:" as the path for tests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB owns the connection pool and hands out the per-entity repositories.
// They all share the pool, so cross-entity transactions (topic+follow, vote
// toggle) run on one database.
type DB struct {
	conn *sql.DB

	Users   *UserRepo
	Topics  *TopicRepo
	Follows *FollowRepo
	Updates *UpdateRepo
	Votes   *VoteRepo
}

// New opens the database, applies pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite serializes writers anyway, and a ":memory:" database exists
	// per connection; a single pooled connection sidesteps both.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write; foreign keys are off by
	// default in SQLite and we rely on them.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:    conn,
		Users:   &UserRepo{conn: conn},
		Topics:  &TopicRepo{conn: conn},
		Follows: &FollowRepo{conn: conn},
		Updates: &UpdateRepo{conn: conn},
		Votes:   &VoteRepo{conn: conn},
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent and safe on existing databases.
//
// The UNIQUE indexes on follows(user_id, topic_id) and
// votes(voter_id, update_id) back the application-level pair invariants, so
// a race that slips past the transactional check still cannot produce a
// duplicate row.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			bio           TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS topics (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS follows (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			topic_id   TEXT NOT NULL REFERENCES topics(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, topic_id)
		);
		CREATE INDEX IF NOT EXISTS idx_follows_user_id ON follows(user_id);
		CREATE INDEX IF NOT EXISTS idx_follows_topic_id ON follows(topic_id);

		CREATE TABLE IF NOT EXISTS updates (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			url        TEXT NOT NULL DEFAULT '',
			author_id  TEXT NOT NULL REFERENCES users(id),
			topic_id   TEXT NOT NULL REFERENCES topics(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_updates_topic_id ON updates(topic_id);
		CREATE INDEX IF NOT EXISTS idx_updates_created_at ON updates(created_at);

		CREATE TABLE IF NOT EXISTS votes (
			id         TEXT PRIMARY KEY,
			voter_id   TEXT NOT NULL REFERENCES users(id),
			update_id  TEXT NOT NULL REFERENCES updates(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (voter_id, update_id)
		);
		CREATE INDEX IF NOT EXISTS idx_votes_update_id ON votes(update_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// inPlaceholders returns "?,?,...,?" with n placeholders, for IN clauses.
func inPlaceholders(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return "?"
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
