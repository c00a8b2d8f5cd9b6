// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite, a pure-Go translation of the
// SQLite C code — no CGo, no C compiler, cross-compiles anywhere Go
// does. database/sql hands each request a scoped connection from the
// pool and returns it when the query finishes, so no request holds
// shared mutable state.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface in the repository package.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" gets its own private
	// database, so the pool must stay at a single connection there.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; the default
	// journal mode locks the whole file per write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer this wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent on existing databases.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS pets (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			name       TEXT NOT NULL,
			species    TEXT,
			weight     REAL,
			birthdate  TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pets_user_id ON pets(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating pets table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			pet_id     TEXT REFERENCES pets(id),
			type       TEXT NOT NULL,
			amount     REAL NOT NULL DEFAULT 0,
			unit       TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at   DATETIME NOT NULL,
			note       TEXT,
			source     TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_activities_user_started
			ON activities(user_id, started_at);
	`)
	if err != nil {
		return fmt.Errorf("creating activities table: %w", err)
	}

	// UNIQUE(user_id, date) makes the snapshot memo idempotent even
	// when two requests compute the same streak concurrently.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS streak_snapshots (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			date          TEXT NOT NULL,
			total_minutes INTEGER NOT NULL DEFAULT 0,
			total_treats  INTEGER NOT NULL DEFAULT 0,
			met_goal      INTEGER NOT NULL DEFAULT 0,
			UNIQUE(user_id, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating streak_snapshots table: %w", err)
	}

	return nil
}
