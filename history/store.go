// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrClosed means the store has been closed.
	ErrClosed = errors.New("history store closed")

	// ErrDatabaseError wraps unexpected driver failures.
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one persisted input line.
type Entry struct {
	ID        string
	SessionID string
	Line      string
	CreatedAt time.Time
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	line       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id);
`

// Store persists input lines to a SQLite database. Each Store instance
// represents one shell session; consecutive duplicates within a session
// are collapsed, matching the controller's in-memory contract.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	session string
	last    string
	closed  bool
}

// Open creates or opens the database at path and starts a new session.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", ErrDatabaseError, err)
	}

	return &Store{
		db:      db,
		session: uuid.NewString(),
	}, nil
}

// SessionID returns the id of the session this store appends into.
func (s *Store) SessionID() string {
	return s.session
}

// Append stores one executed line. A line identical to the most recently
// stored entry of this session is skipped.
func (s *Store) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if line == "" || line == s.last {
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO entries (id, session_id, line, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), s.session, line, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	s.last = line
	return nil
}

// Recent returns up to n entries across all sessions, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, line, created_at FROM entries ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search returns up to n entries whose line starts with prefix, newest
// first.
func (s *Store) Search(prefix string, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, line, created_at FROM entries
		 WHERE line LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		escapeLike(prefix)+"%", n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Prune deletes everything but the newest max entries.
func (s *Store) Prune(max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(
		`DELETE FROM entries WHERE id NOT IN (
			SELECT id FROM entries ORDER BY created_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Line, &created); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally.
func escapeLike(s string) string {
	var out []rune
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
