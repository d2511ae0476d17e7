// Package sqlitestore persists editor sessions in SQLite. Each session is
// one row holding its JSON document plus the summary columns list views
// need.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phanxgames/fxcanvas"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when a session id is not in the store.
var ErrNotFound = errors.New("sqlitestore: session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	layer_count   INTEGER NOT NULL,
	element_count INTEGER NOT NULL,
	action_count  INTEGER NOT NULL,
	document      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions (updated_at);
`

// Summary is the list-view row of a stored session.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Layers    int       `json:"layers"`
	Elements  int       `json:"elements"`
	Actions   int       `json:"actions"`
}

// Store is a session repository over a SQLite database.
type Store struct {
	db *sql.DB
}

// New wraps an open database. Call Init before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at dbPath and applies the
// schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Init applies the schema.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts or replaces a session. The session must validate.
func (s *Store) Save(ctx context.Context, sess fxcanvas.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, name, created_at, updated_at, layer_count, element_count, action_count, document)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            updated_at = excluded.updated_at,
            layer_count = excluded.layer_count,
            element_count = excluded.element_count,
            action_count = excluded.action_count,
            document = excluded.document
    `,
		sess.ID,
		sess.Name,
		formatTime(sess.CreatedAt),
		formatTime(sess.UpdatedAt),
		len(sess.Layers),
		sess.ElementCount(),
		len(sess.Actions),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Load returns the session with the given id.
func (s *Store) Load(ctx context.Context, id string) (fxcanvas.Session, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM sessions WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fxcanvas.Session{}, fmt.Errorf("load session %s: %w", id, ErrNotFound)
		}
		return fxcanvas.Session{}, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess fxcanvas.Session
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return fxcanvas.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

// List returns every stored session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at, layer_count, element_count, action_count
        FROM sessions
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created, updated string
		if err := rows.Scan(&sum.ID, &sum.Name, &created, &updated, &sum.Layers, &sum.Elements, &sum.Actions); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("list sessions: %s: %w", sum.ID, err)
		}
		if sum.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("list sessions: %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
