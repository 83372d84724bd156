// Package state tracks batch job progress in SQLite so interrupted runs can
// resume without reprocessing finished inputs.
//
// Driver modes follow the build tag:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (-tags cgo_sqlite): mattn/go-sqlite3
package state

import (
	"database/sql"
	"fmt"
	"time"
)

// Status is a job's terminal (or in-flight) classification.
type Status string

// Job statuses as stored in the jobs table.
const (
	StatusPending       Status = "pending"
	StatusProcessing    Status = "processing"
	StatusDone          Status = "done"
	StatusNoLyrics      Status = "no_lyrics"
	StatusUnprocessable Status = "unprocessable"
	StatusFailed        Status = "failed"
	StatusSkipped       Status = "skipped"
)

// Outcome is one finished job, ready to be recorded.
type Outcome struct {
	InputPath  string
	Status     Status
	ReasonCode string
	Error      string
	Blake3     string // hex BLAKE3 of the input bytes, "" if unread
	DestPath   string // bucket location the input was moved to
	OutputPath string // written LRC path, "" when output was suppressed
	DurationMS int64
}

// Store is the batch job-state database.
type Store struct {
	db *sql.DB
}

// DriverName returns the SQL driver name in use ("sqlite" or "sqlite3").
func DriverName() string {
	return driverName
}

// DriverType identifies the underlying implementation ("purego" or "cgo").
func DriverType() string {
	return driverType
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
  input_path    TEXT PRIMARY KEY,
  input_mtime   INTEGER NOT NULL,
  input_size    INTEGER NOT NULL,
  input_blake3  TEXT,
  status        TEXT NOT NULL,
  reason_code   TEXT,
  error         TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  started_at    INTEGER,
  finished_at   INTEGER,
  dest_path     TEXT,
  output_path   TEXT,
  duration_ms   INTEGER,
  run_id        TEXT,
  updated_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
`

// Open opens (creating if needed) the job-state database at path and applies
// the schema and connection pragmas.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nowUnix() int64 {
	return time.Now().Unix()
}

// Recover resets jobs stuck in-flight after a crash back to pending.
func (s *Store) Recover() error {
	_, err := s.db.Exec(
		"UPDATE jobs SET status=?, updated_at=? WHERE status=?",
		StatusPending, nowUnix(), StatusProcessing,
	)
	return err
}

// IsDone reports whether the input was already completed with the same
// mtime and size, meaning it can be skipped this run.
func (s *Store) IsDone(path string, mtime, size int64) (bool, error) {
	row := s.db.QueryRow(
		"SELECT status, input_mtime, input_size FROM jobs WHERE input_path=?", path)

	var status string
	var prevMtime, prevSize int64
	switch err := row.Scan(&status, &prevMtime, &prevSize); err {
	case nil:
		return Status(status) == StatusDone && prevMtime == mtime && prevSize == size, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// UpsertPending registers an input as pending for this run. A row already
// marked done keeps its status; anything else is reset to pending.
func (s *Store) UpsertPending(path string, mtime, size int64, runID string) error {
	_, err := s.db.Exec(`
INSERT INTO jobs (input_path, input_mtime, input_size, status, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(input_path) DO UPDATE SET
  input_mtime=excluded.input_mtime,
  input_size=excluded.input_size,
  run_id=excluded.run_id,
  status=CASE WHEN jobs.status='done' THEN jobs.status ELSE 'pending' END,
  updated_at=excluded.updated_at`,
		path, mtime, size, StatusPending, runID, nowUnix())
	return err
}

// RecordOutcomes writes a batch of finished jobs in one transaction.
func (s *Store) RecordOutcomes(outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
UPDATE jobs
SET status=?,
    reason_code=?,
    error=?,
    input_blake3=?,
    attempt_count=attempt_count + CASE WHEN ?='failed' THEN 1 ELSE 0 END,
    finished_at=?,
    dest_path=?,
    output_path=?,
    duration_ms=?,
    updated_at=?
WHERE input_path=?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := nowUnix()
	for _, o := range outcomes {
		if _, err := stmt.Exec(
			o.Status, o.ReasonCode, o.Error, o.Blake3, o.Status,
			now, o.DestPath, o.OutputPath, o.DurationMS, now, o.InputPath,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountByStatus returns job counts grouped by status, for end-of-run reports.
func (s *Store) CountByStatus() (map[Status]int64, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}
