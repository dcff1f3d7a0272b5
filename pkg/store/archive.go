// Package store persists the message archive in SQLite. WAL mode
// keeps writes from the event path cheap while a history query runs.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Direction of an archived message.
const (
	DirIn  = "in"
	DirOut = "out"
)

// Entry is one archived message.
type Entry struct {
	ID        int64
	Direction string // DirIn or DirOut
	Peer      string // contact name, or "#<n>" for a channel
	Channel   int    // -1 for private messages
	Text      string
	At        time.Time
}

// Archive is the SQLite-backed message log.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database.
func Open(path string) (*Archive, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	db.SetMaxOpenConns(2)

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error { return a.db.Close() }

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		direction TEXT NOT NULL,
		peer      TEXT NOT NULL,
		channel   INTEGER NOT NULL DEFAULT -1,
		text      TEXT NOT NULL,
		at        TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_at ON messages(at);
	CREATE INDEX IF NOT EXISTS idx_messages_peer ON messages(peer, at);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Record appends one message to the archive.
func (a *Archive) Record(e Entry) error {
	_, err := a.db.Exec(
		`INSERT INTO messages (direction, peer, channel, text, at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Direction, e.Peer, e.Channel, e.Text, e.At.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns the newest limit entries, oldest first.
func (a *Archive) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.Query(
		`SELECT id, direction, peer, channel, text, at FROM
		   (SELECT * FROM messages ORDER BY id DESC LIMIT ?)
		 ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// RecentWith returns the newest limit entries exchanged with peer,
// oldest first.
func (a *Archive) RecentWith(peer string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.Query(
		`SELECT id, direction, peer, channel, text, at FROM
		   (SELECT * FROM messages WHERE peer = ? ORDER BY id DESC LIMIT ?)
		 ORDER BY id ASC`,
		peer, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var atStr string
		if err := rows.Scan(&e.ID, &e.Direction, &e.Peer, &e.Channel, &e.Text, &atStr); err != nil {
			return nil, err
		}
		var parseErr error
		e.At, parseErr = time.Parse(time.RFC3339Nano, atStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse message time for entry %d: %w", e.ID, parseErr)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
