// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere
// Go works.
//
// The uniqueness constraints declared here are load-bearing: a race between
// two join requests (or two posts of the same photo to a club) is resolved
// by UNIQUE(club_id, user_id) / UNIQUE(club_id, photo_id) into a Conflict
// error instead of a silent duplicate row. The denormalized member/photo
// counters on clubs are only ever touched inside the same transaction as
// the row they count, so a reader can never observe one without the other.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-entity repositories hang off
// it via accessors (db.Users(), db.Clubs(), ...); the server opens one DB
// at startup and closes it during graceful shutdown.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/photos.db"  → file-based database (persistent)
//   - ":memory:"        → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection, so a pool of N
	// connections would be N separate empty databases. Cap the pool at
	// one; file databases keep the default pool.
	if strings.Contains(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// issue surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening —
	// important for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The club/photo cascades
	// (delete club → memberships and associations go too) depend on them.
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

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start.
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				display_name  TEXT NOT NULL DEFAULT '',
				bio           TEXT NOT NULL DEFAULT '',
				profile_image TEXT NOT NULL DEFAULT '',
				github_id     INTEGER UNIQUE,
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"photos", `
			CREATE TABLE IF NOT EXISTS photos (
				id                 TEXT PRIMARY KEY,
				title              TEXT NOT NULL,
				description        TEXT NOT NULL DEFAULT '',
				tags               TEXT NOT NULL DEFAULT '',
				featured_stream    BOOLEAN NOT NULL DEFAULT 1,
				filename           TEXT NOT NULL,
				thumbnail_filename TEXT NOT NULL,
				original_name      TEXT NOT NULL,
				file_size          INTEGER NOT NULL,
				mime_type          TEXT NOT NULL,
				upload_date        DATETIME NOT NULL,
				user_id            TEXT REFERENCES users(id),
				created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos(created_at);
			CREATE INDEX IF NOT EXISTS idx_photos_user_id ON photos(user_id);
		`},
		{"clubs", `
			CREATE TABLE IF NOT EXISTS clubs (
				id           TEXT PRIMARY KEY,
				name         TEXT NOT NULL,
				description  TEXT NOT NULL DEFAULT '',
				creator_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				cover_image  TEXT NOT NULL DEFAULT '',
				is_private   BOOLEAN NOT NULL DEFAULT 0,
				member_count INTEGER NOT NULL DEFAULT 1,
				photo_count  INTEGER NOT NULL DEFAULT 0,
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"club_members", `
			CREATE TABLE IF NOT EXISTS club_members (
				id        TEXT PRIMARY KEY,
				club_id   TEXT NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
				user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				role      TEXT NOT NULL DEFAULT 'member',
				joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(club_id, user_id)
			);
		`},
		{"club_photos", `
			CREATE TABLE IF NOT EXISTS club_photos (
				id        TEXT PRIMARY KEY,
				club_id   TEXT NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
				photo_id  TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
				posted_by TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				posted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(club_id, photo_id)
			);
		`},
		{"likes", `
			CREATE TABLE IF NOT EXISTS likes (
				id         TEXT PRIMARY KEY,
				photo_id   TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
				user_id    TEXT NOT NULL DEFAULT 'anonymous',
				user_ip    TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(photo_id, user_id, user_ip)
			);
		`},
		{"comments", `
			CREATE TABLE IF NOT EXISTS comments (
				id         TEXT PRIMARY KEY,
				photo_id   TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
				username   TEXT NOT NULL DEFAULT 'Anonymous',
				comment    TEXT NOT NULL,
				user_ip    TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_comments_photo_id ON comments(photo_id);
		`},
		{"contests", `
			CREATE TABLE IF NOT EXISTS contests (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				category    TEXT NOT NULL DEFAULT 'General',
				start_date  DATETIME NOT NULL,
				end_date    DATETIME NOT NULL,
				entry_fee   INTEGER NOT NULL DEFAULT 0,
				max_entries INTEGER NOT NULL DEFAULT 3,
				prizes      TEXT NOT NULL DEFAULT '[]',
				club_id     TEXT REFERENCES clubs(id) ON DELETE CASCADE,
				is_public   BOOLEAN NOT NULL DEFAULT 1,
				status      TEXT NOT NULL DEFAULT 'upcoming',
				created_by  TEXT NOT NULL REFERENCES users(id),
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"contest_entries", `
			CREATE TABLE IF NOT EXISTS contest_entries (
				id                 TEXT PRIMARY KEY,
				contest_id         TEXT NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
				user_id            TEXT NOT NULL REFERENCES users(id),
				title              TEXT NOT NULL,
				description        TEXT NOT NULL DEFAULT '',
				filename           TEXT NOT NULL,
				thumbnail_filename TEXT NOT NULL DEFAULT '',
				created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_contest_entries_contest ON contest_entries(contest_id);
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}

	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
//
// Every multi-statement mutation (club create + owner membership row,
// join/leave/post-photo + counter bump) goes through here so a crash
// mid-sequence never leaves the counter and the rows disagreeing.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		// Rollback error is secondary — the fn error is what matters.
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver exposes it only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
