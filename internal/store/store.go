// Package store provides a SQLite-backed history of question/answer
// exchanges. Each exchange records the question asked, the cited response
// text, and whether the relevance gate declined it, keyed by a session name
// so interactive chat sessions can be reviewed later.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Exchange is a single question/answer turn.
type Exchange struct {
	// Session is the session name the exchange belongs to.
	Session string
	// Question is the user's question as asked.
	Question string
	// Answer is the formatted response text, or the decline message.
	Answer string
	// Declined reports whether the relevance gate refused the question.
	Declined bool
	// CreatedAt is when the exchange was persisted.
	CreatedAt time.Time
}

// HistoryStore persists and retrieves Q&A exchanges. Implementations must
// be safe for concurrent use.
type HistoryStore interface {
	// Append persists a single exchange.
	Append(ctx context.Context, ex Exchange) error
	// Recent returns the most recent n exchanges for the session, ordered
	// oldest-first. If fewer than n exist, all are returned.
	Recent(ctx context.Context, session string, n int) ([]Exchange, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a HistoryStore backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the history database.
// It resolves to ~/.grahamchat/history.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".grahamchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the
// schema migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS exchanges (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    session      TEXT    NOT NULL,
    question     TEXT    NOT NULL,
    answer       TEXT    NOT NULL,
    declined     INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_exchanges_session_created
    ON exchanges (session, created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Append persists a single exchange.
func (s *SQLiteStore) Append(ctx context.Context, ex Exchange) error {
	const q = `INSERT INTO exchanges (session, question, answer, declined, created_at) VALUES (?, ?, ?, ?, ?)`
	declined := 0
	if ex.Declined {
		declined = 1
	}
	if _, err := s.db.ExecContext(ctx, q, ex.Session, ex.Question, ex.Answer, declined, time.Now().Unix()); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	return nil
}

// Recent returns the most recent n exchanges for the session, ordered
// oldest-first. Uses a subquery to select the tail then re-order for display.
func (s *SQLiteStore) Recent(ctx context.Context, session string, n int) ([]Exchange, error) {
	const q = `
SELECT session, question, answer, declined, created_at FROM (
    SELECT id, session, question, answer, declined, created_at
    FROM   exchanges
    WHERE  session = ?
    ORDER  BY created_at DESC, id DESC
    LIMIT  ?
) ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, session, n)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		var ts int64
		var declined int
		if err := rows.Scan(&ex.Session, &ex.Question, &ex.Answer, &declined, &ts); err != nil {
			return nil, fmt.Errorf("store: recent scan: %w", err)
		}
		ex.Declined = declined != 0
		ex.CreatedAt = time.Unix(ts, 0)
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: recent rows: %w", err)
	}
	return exchanges, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
