// Package sqlite provides a SQLite-backed implementation of every repository
// contract, scoped to one viewing user.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	email      TEXT    NOT NULL UNIQUE,
	role       TEXT    NOT NULL,
	is_active  INTEGER NOT NULL DEFAULT 1,
	deleted_at TEXT,
	created_at TEXT    NOT NULL,
	updated_at TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	code       TEXT    NOT NULL,
	department TEXT    NOT NULL DEFAULT '',
	position   TEXT    NOT NULL DEFAULT '',
	phone      TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT    NOT NULL DEFAULT '',
	message      TEXT    NOT NULL,
	type         TEXT    NOT NULL DEFAULT 'general',
	sender_id    INTEGER NOT NULL,
	recipient_id INTEGER NOT NULL,
	is_read      INTEGER NOT NULL DEFAULT 0,
	is_starred   INTEGER NOT NULL DEFAULT 0,
	read_at      TEXT,
	deleted_at   TEXT,
	created_at   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, deleted_at);
CREATE INDEX IF NOT EXISTS idx_notifications_sender ON notifications(sender_id, deleted_at);

CREATE TABLE IF NOT EXISTS roster_periods (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'draft'
);

CREATE TABLE IF NOT EXISTS shifts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	roster_period_id INTEGER NOT NULL REFERENCES roster_periods(id) ON DELETE CASCADE,
	user_id          INTEGER NOT NULL,
	starts_at        TEXT    NOT NULL,
	ends_at          TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL,
	action      TEXT    NOT NULL,
	entity_type TEXT    NOT NULL DEFAULT '',
	entity_id   INTEGER NOT NULL DEFAULT 0,
	description TEXT    NOT NULL DEFAULT '',
	created_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at);
`

var _ repository.Backend = (*Backend)(nil)

// Backend implements repository.Backend on a SQLite database. Notification
// categories are computed for the viewer: the user the backend acts as.
type Backend struct {
	db       *sql.DB
	viewerID int64
	now      func() time.Time
	logger   logging.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock sets the clock used for stored timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// Open creates or opens the database at dbPath and prepares its schema.
func Open(dbPath string, viewerID int64, opts ...Option) (*Backend, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite backend: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite backend: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite backend: open db: %w", err)
	}
	b, err := New(db, viewerID, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// New wraps an open database and prepares its schema.
func New(db *sql.DB, viewerID int64, opts ...Option) (*Backend, error) {
	b, err := wrap(db, viewerID, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.init(); err != nil {
		return nil, err
	}
	return b, nil
}

func wrap(db *sql.DB, viewerID int64, opts ...Option) (*Backend, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("sqlite backend: viewer id %d: %w", viewerID, domain.ErrInvalidID)
	}
	b := &Backend{db: db, viewerID: viewerID, now: time.Now, logger: logging.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) init() error {
	if _, err := b.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite backend: set busy timeout: %w", err)
	}
	if _, err := b.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("sqlite backend: enable foreign keys: %w", err)
	}
	if _, err := b.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite backend: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// ViewerID returns the user the backend acts as.
func (b *Backend) ViewerID() int64 {
	return b.viewerID
}

// ForViewer returns a backend sharing the same database but acting as
// another user.
func (b *Backend) ForViewer(viewerID int64) (*Backend, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("sqlite backend: viewer id %d: %w", viewerID, domain.ErrInvalidID)
	}
	clone := *b
	clone.viewerID = viewerID
	return &clone, nil
}

// withTx runs fn in a transaction, rolling back when it fails.
func (b *Backend) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite backend: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite backend: commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// logActivity appends an activity log entry for the viewer.
func (b *Backend) logActivity(ctx context.Context, ex execer, action, entityType string, entityID int64, description string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, entity_type, entity_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.viewerID, action, entityType, entityID, description, b.stamp())
	if err != nil {
		return fmt.Errorf("sqlite backend: log activity: %w", err)
	}
	return nil
}

func (b *Backend) stamp() string {
	return formatTime(b.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written by other tools
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite backend: parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// affected maps a zero-row update to domain.ErrNotFound.
func affected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite backend: %s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("sqlite backend: get %s %d: %w", what, id, err)
}

type scanner interface {
	Scan(dest ...any) error
}
