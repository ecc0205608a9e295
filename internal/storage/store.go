// Package storage implements the engine's persistence contract on SQLite.
// The three task collections and the users table carry composite
// (owner, ...) indexes so every read path in the engine is index-backed.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Sidyaa10/Task-Zen/internal/core"
)

// Store is a SQLite-backed implementation of core.Store.
type Store struct {
	db *sql.DB
	q  querier
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (or creates) the database at dbPath and applies the schema.
// Schema and index creation is idempotent and safe to race.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, q: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// migrate creates the necessary tables and indexes
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			deadline TEXT NOT NULL DEFAULT '',
			time_start TEXT NOT NULL,
			time_end TEXT NOT NULL,
			priority_level INTEGER NOT NULL,
			manual_priority INTEGER NOT NULL,
			progress REAL,
			total_sessions INTEGER NOT NULL DEFAULT 0,
			completed_sessions INTEGER NOT NULL DEFAULT 0,
			reminder_settings TEXT NOT NULL DEFAULT '{}',
			days_per_week INTEGER NOT NULL DEFAULT 0,
			hours_per_day INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			completed_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS subtasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			parent_task_id TEXT NOT NULL,
			title TEXT NOT NULL,
			scheduled_date TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			parent_task_id TEXT NOT NULL,
			subtask_id TEXT NOT NULL DEFAULT '',
			scheduled_date TEXT NOT NULL,
			time_start TEXT NOT NULL,
			time_end TEXT NOT NULL,
			duration INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			profile_picture TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_owner_status_category ON tasks(owner_id, status, category);
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_date_range ON tasks(owner_id, start_date, end_date);
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_created_at ON tasks(owner_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_subtasks_owner_parent ON subtasks(owner_id, parent_task_id);
		CREATE INDEX IF NOT EXISTS idx_subtasks_owner_scheduled_date ON subtasks(owner_id, scheduled_date);
		CREATE INDEX IF NOT EXISTS idx_sessions_owner_parent ON sessions(owner_id, parent_task_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_owner_date_completed ON sessions(owner_id, scheduled_date, completed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Transact runs fn inside a transaction. Nested calls run in the
// enclosing transaction.
func (s *Store) Transact(ctx context.Context, fn func(core.Store) error) error {
	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Counts returns row counts per table, for the status command.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{"tasks", "subtasks", "sessions", "users"} {
		var n int
		if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// GenerateID returns a new unique document ID.
func GenerateID() string {
	return uuid.NewString()
}

// ErrUserNotFound indicates no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
