package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"aircheck/internal/config"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "history.db"))
}

// OpenPath opens the history database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin inserts a new run in the recording state and returns its row ID.
func (s *Store) Begin(ctx context.Context, run Run) (int64, error) {
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, station, stream_url, output_path, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Station,
		run.StreamURL,
		run.OutputPath,
		StatusRecording,
		started.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// Finish finalizes a run with its outcome figures.
func (s *Store) Finish(ctx context.Context, id int64, outcome Outcome) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET
            status = ?, output_path = ?, finished_at = ?,
            segments = ?, bytes = ?, seconds = ?, attempts = ?, error_message = ?
         WHERE id = ?`,
		outcome.Status,
		outcome.OutputPath,
		time.Now().UTC().Format(time.RFC3339Nano),
		outcome.Segments,
		outcome.Bytes,
		outcome.Seconds,
		outcome.Attempts,
		outcome.ErrorMessage,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, run_id, station, stream_url, output_path, status,
                 started_at, finished_at, segments, bytes, seconds, attempts, error_message
              FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Prune deletes finished runs beyond the newest keep rows and returns how
// many were removed. Live runs are never pruned.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM runs WHERE status != ? AND id NOT IN (
            SELECT id FROM runs WHERE status != ? ORDER BY id DESC LIMIT ?
         )`,
		StatusRecording,
		StatusRecording,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt, finishedAt string
	err := rows.Scan(
		&run.ID,
		&run.RunID,
		&run.Station,
		&run.StreamURL,
		&run.OutputPath,
		&run.Status,
		&startedAt,
		&finishedAt,
		&run.Segments,
		&run.Bytes,
		&run.Seconds,
		&run.Attempts,
		&run.ErrorMessage,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if run.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return Run{}, err
	}
	if run.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
		return Run{}, err
	}
	return run, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}
