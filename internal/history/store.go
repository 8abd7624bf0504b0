package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open opens (creating if necessary) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin inserts a new running row and stamps the run's ID and CreatedAt.
func (s *Store) Begin(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("history: run required")
	}
	run.Status = StatusRunning
	run.CreatedAt = time.Now().UTC()

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO runs (source, source_kind, model, resolved_path, transcript_path, status, error_message, duration_seconds, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.Source, run.SourceKind, run.Model, run.ResolvedPath, run.TranscriptPath,
			string(run.Status), run.ErrorMessage, run.Duration.Seconds(), formatTime(run.CreatedAt),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("history: read run id: %w", err)
	}
	run.ID = id
	return nil
}

// Finish records a run's terminal state.
func (s *Store) Finish(ctx context.Context, run *Run) error {
	if run == nil || run.ID == 0 {
		return errors.New("history: run with id required")
	}
	run.CompletedAt = time.Now().UTC()
	run.Duration = run.CompletedAt.Sub(run.CreatedAt)

	err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`UPDATE runs SET resolved_path = ?, transcript_path = ?, status = ?, error_message = ?, duration_seconds = ?, completed_at = ?
			 WHERE id = ?`,
			run.ResolvedPath, run.TranscriptPath, string(run.Status), run.ErrorMessage,
			run.Duration.Seconds(), formatTime(run.CompletedAt), run.ID,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("history: finish run %d: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, source_kind, model, resolved_path, transcript_path, status, error_message, duration_seconds, created_at, completed_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run             Run
			status          string
			durationSeconds float64
			createdAt       string
			completedAt     string
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.SourceKind, &run.Model,
			&run.ResolvedPath, &run.TranscriptPath, &status, &run.ErrorMessage,
			&durationSeconds, &createdAt, &completedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.Status = Status(status)
		run.Duration = time.Duration(durationSeconds * float64(time.Second))
		run.CreatedAt = parseTime(createdAt)
		run.CompletedAt = parseTime(completedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
