package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/carebridge/carebridge/internal/domain/model"
)

const schemaVersion = 1

// SQLite is an EventSource backed by a local sqlite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewSQLiteMemory creates an in-memory source for testing.
func NewSQLiteMemory() (*SQLite, error) {
	return NewSQLite(":memory:")
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	if version < 1 {
		const ddl = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	date        TEXT NOT NULL, -- YYYY-MM-DD
	minutes     INTEGER NOT NULL, -- minutes since midnight
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, minutes);`
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("create events table: %w", err)
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// FetchEvents returns all stored events in (date, time) order.
func (s *SQLite) FetchEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, minutes, description, color FROM events ORDER BY date, minutes, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	out := make([]model.CalendarEvent, 0)
	for rows.Next() {
		var (
			ev      model.CalendarEvent
			date    string
			minutes int
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &date, &minutes, &ev.Description, &ev.Color); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		d, err := model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		ev.Date = d
		ev.Time = model.TimeOfDay(minutes)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

// CreateEvent persists one event and echoes it back.
func (s *SQLite) CreateEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, date, minutes, description, color) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Date.String(), int(ev.Time), ev.Description, ev.Color)
	if err != nil {
		return model.CalendarEvent{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return ev, nil
}
