// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database. It lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Use ":memory:"
// in tests for a throwaway database.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of the SQLite C code: no CGo, no C compiler,
// cross-compiles like any other Go package.
//
// WHY sqlx ON TOP OF database/sql?
// sqlx keeps the database/sql connection pool and adds GetContext/SelectContext,
// which scan rows straight into structs using their `db:"..."` tags. That removes
// the hand-maintained column lists in every Scan() call.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	// Blank import: registers the "sqlite" driver with database/sql at init time.
	_ "modernc.org/sqlite"
)

// DB wraps a sqlx connection pool and implements both repository interfaces.
type DB struct {
	conn *sqlx.DB
}

// New opens the database at dbPath, applies connection pragmas and creates the
// schema if it does not exist yet.
//
// dbPath examples:
//   - "data/messages.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests)
//
// A failure here is fatal for the process: there is no way to serve requests
// without a usable database.
func New(dbPath string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SINGLE CONNECTION:
	// SQLite allows one writer at a time anyway. Pinning the pool to one
	// connection serialises writes inside Go instead of surfacing SQLITE_BUSY,
	// and keeps ":memory:" databases alive (each new connection would
	// otherwise get its own empty in-memory database).
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
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

// Ping reports whether the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// migrate creates the two tables idempotently.
//
// CREATE TABLE IF NOT EXISTS is safe to run on every start. The UNIQUE
// constraint on username is a backstop; registration checks for an existing
// name in the same statement that inserts (see CreateUser).
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			done    INTEGER NOT NULL DEFAULT 0 CHECK (done IN (0, 1))
		);
		CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating messages table: %w", err)
	}

	return nil
}

// boolToInt maps Go booleans onto the 0/1 integers stored in the done column.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
