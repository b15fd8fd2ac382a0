// Package history provides SQLite-backed persistence of finished meditation sessions.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"zentime/internal/core/model"
)

const fileName = "history.db"

// Session is one completed meditation.
type Session struct {
	ID              string
	Date            time.Time
	DurationMinutes int
	AmbientSound    model.AmbientSound
}

// Summary aggregates the recorded sessions.
type Summary struct {
	Sessions     int
	TotalMinutes int
	LastSession  time.Time
}

// Store provides access to the session history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return store, nil
}

// DefaultPath returns the history database location inside configDir.
func DefaultPath(configDir, appName string) string {
	return filepath.Join(configDir, appName, fileName)
}

// Close closes the database connection.
func (store *Store) Close() error {
	return store.db.Close()
}

func (store *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		completed_at DATETIME NOT NULL,
		duration_minutes INTEGER NOT NULL,
		ambient_sound TEXT NOT NULL DEFAULT 'none'
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);
	`
	_, err := store.db.Exec(schema)
	return err
}

// Add appends a session. Missing ID and date are filled in.
func (store *Store) Add(ctx context.Context, session Session) (Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Date.IsZero() {
		session.Date = time.Now()
	}
	if session.AmbientSound == "" {
		session.AmbientSound = model.AmbientNone
	}
	session.Date = session.Date.UTC()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO sessions (id, completed_at, duration_minutes, ambient_sound) VALUES (?, ?, ?, ?)`,
		session.ID, session.Date, session.DurationMinutes, string(session.AmbientSound))
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// List returns every session, newest first.
func (store *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := store.db.QueryContext(ctx,
		`SELECT id, completed_at, duration_minutes, ambient_sound FROM sessions ORDER BY completed_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var sound string
		if err := rows.Scan(&session.ID, &session.Date, &session.DurationMinutes, &sound); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.AmbientSound = model.ParseAmbientSound(sound)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Summary returns aggregate statistics.
func (store *Store) Summary(ctx context.Context) (Summary, error) {
	var summary Summary
	err := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0) FROM sessions`).
		Scan(&summary.Sessions, &summary.TotalMinutes)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize sessions: %w", err)
	}

	err = store.db.QueryRowContext(ctx,
		`SELECT completed_at FROM sessions ORDER BY completed_at DESC LIMIT 1`).
		Scan(&summary.LastSession)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("last session: %w", err)
	}
	return summary, nil
}

// Clear removes every recorded session.
func (store *Store) Clear(ctx context.Context) error {
	if _, err := store.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
