// Package journal keeps a SQLite log of task list mutations.
package journal

import (
	"database/sql"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"auditor/internal/tasks"
)

type Entry struct {
	At     time.Time
	Action string
	Handle tasks.Handle
	Title  string
}

// Store is opened lazily: the database file and its directory are only
// created by the first Record.
type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	return &Store{path: path, now: time.Now}, nil
}

// conn returns the database handle. Without create it reports nil when
// nothing has been recorded yet.
func (s *Store) conn(create bool) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) && !create {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	s.db = db
	return db, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	at TEXT NOT NULL,
	action TEXT NOT NULL,
	handle TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT ''
);`
	_, err := db.Exec(ddl)
	return err
}

// Record implements tasks.Recorder.
func (s *Store) Record(action string, h tasks.Handle, title string) error {
	db, err := s.conn(true)
	if err != nil {
		return err
	}
	at := s.now().UTC().Format(time.RFC3339Nano)
	_, err = db.Exec(`INSERT INTO journal (at, action, handle, title) VALUES (?, ?, ?, ?);`,
		at, action, string(h), title)
	return err
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	db, err := s.conn(false)
	if err != nil || db == nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT at, action, handle, title FROM journal ORDER BY id DESC LIMIT ?;`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var at, handle string
		if err := rows.Scan(&at, &e.Action, &handle, &e.Title); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.At = parsed
		}
		e.Handle = tasks.Handle(handle)
		out = append(out, e)
	}
	return out, rows.Err()
}

func dsn(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
