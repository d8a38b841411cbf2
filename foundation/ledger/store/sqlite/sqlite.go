// Package sqlite provides a store backend on top of a single-table
// SQLite database. SQLite's default synchronous mode makes each insert
// durable before the statement returns.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/store"
	_ "github.com/mattn/go-sqlite3"
)

const createSchema = `
CREATE TABLE IF NOT EXISTS entries (
	k BLOB PRIMARY KEY,
	v BLOB NOT NULL
)`

// SQLite manages a SQLite backed implementation of the store contract.
type SQLite struct {
	db *sql.DB
}

var _ store.Store = (*SQLite)(nil)

// New opens or creates the SQLite database at the specified path.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// The store is owned by one process at a time, and a single
	// connection keeps statement ordering trivial.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Put writes the value for the specified key, replacing any existing
// value.
func (s *SQLite) Put(key []byte, value []byte) error {
	const q = `INSERT INTO entries (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`

	if _, err := s.db.Exec(q, key, value); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Get reads the value for the specified key, returning store.ErrNotFound
// when no value exists.
func (s *SQLite) Get(key []byte) ([]byte, error) {
	const q = `SELECT v FROM entries WHERE k = ?`

	var value []byte
	if err := s.db.QueryRow(q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}

	return value, nil
}

// ForEach runs the specified function against every key/value pair.
func (s *SQLite) ForEach(fn func(key []byte, value []byte) error) error {
	const q = `SELECT k, v FROM entries`

	rows, err := s.db.Query(q)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	return rows.Err()
}

// DeleteAll removes every entry from the table.
func (s *SQLite) DeleteAll() error {
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
