// Package storage provides SQLite-based persistence for rotation history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Target statuses.
const (
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// Store manages the SQLite database connection for rotation history.
type Store struct {
	db *sql.DB
}

// Run is one completed rotation.
type Run struct {
	ID        int64
	Mode      string
	From      string // current color row before the rotation
	To        string // color row rotated to
	Targets   []TargetResult
	CreatedAt time.Time
}

// Failed returns how many targets of the run failed.
func (r Run) Failed() int {
	n := 0
	for _, t := range r.Targets {
		if t.Status == StatusFailed {
			n++
		}
	}
	return n
}

// TargetResult is the outcome of recoloring one target file.
type TargetResult struct {
	Path   string
	Status string
	Error  string // empty unless Status is StatusFailed
}

// ColorUsage counts how often a color row was rotated to.
type ColorUsage struct {
	Color    string
	Count    int
	LastUsed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			from_color TEXT NOT NULL,
			to_color TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_to_color ON runs(to_color);

		CREATE TABLE IF NOT EXISTS run_targets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_run_targets_run_id ON run_targets(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a rotation together with its per-target outcomes.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(run Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (mode, from_color, to_color) VALUES (?, ?, ?)",
		run.Mode, run.From, run.To,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, t := range run.Targets {
		var errText sql.NullString
		if t.Error != "" {
			errText = sql.NullString{String: t.Error, Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT INTO run_targets (run_id, path, status, error) VALUES (?, ?, ?, ?)",
			id, t.Path, t.Status, errText,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save target %s: %w", t.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recent rotations, newest first,
// each with its targets.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, from_color, to_color, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Mode, &r.From, &r.To, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for i := range runs {
		targets, err := s.runTargets(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Targets = targets
	}
	return runs, nil
}

func (s *Store) runTargets(runID int64) ([]TargetResult, error) {
	rows, err := s.db.Query(
		`SELECT path, status, error FROM run_targets WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query targets: %w", err)
	}
	defer rows.Close()

	var targets []TargetResult
	for rows.Next() {
		var t TargetResult
		var errText sql.NullString
		if err := rows.Scan(&t.Path, &t.Status, &errText); err != nil {
			return nil, fmt.Errorf("storage: cannot scan target row: %w", err)
		}
		t.Error = errText.String
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return targets, nil
}

// Usage returns how often each color row was rotated to, most used first.
func (s *Store) Usage() ([]ColorUsage, error) {
	rows, err := s.db.Query(
		`SELECT to_color, COUNT(*), MAX(created_at)
		 FROM runs
		 GROUP BY to_color
		 ORDER BY COUNT(*) DESC, to_color`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get color usage: %w", err)
	}
	defer rows.Close()

	var usage []ColorUsage
	for rows.Next() {
		var u ColorUsage
		var lastUsed any
		if err := rows.Scan(&u.Color, &u.Count, &lastUsed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan usage row: %w", err)
		}
		u.LastUsed = parseTime(lastUsed)
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return usage, nil
}

// parseTime handles both time.Time and the string form SQLite may return.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
