package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"soundcheck/internal/config"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database under the configured
// log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "soundcheck.db"))
}

// OpenPath opens the ledger database at an explicit path.
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
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the location of the ledger database.
func (s *Store) Path() string { return s.path }

// CreateRun records the start of a batch run and returns it.
func (s *Store) CreateRun(ctx context.Context, sourceDir, outputDir string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		SourceDir: sourceDir,
		OutputDir: outputDir,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, source_dir, output_dir, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.SourceDir, run.OutputDir, run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's end time and final counters.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	finished := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, processed = ?, failed = ?, rows_written = ? WHERE id = ?",
		finished.Format(time.RFC3339Nano), run.Processed, run.Failed, run.Rows, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	run.FinishedAt = &finished
	return nil
}

// AddFile registers a file in the pending state and returns its record.
func (s *Store) AddFile(ctx context.Context, runID, name, format string) (*FileRecord, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO run_files (run_id, name, format, status, updated_at) VALUES (?, ?, ?, ?, ?)",
		runID, name, format, string(StatusPending), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert file record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("file record id: %w", err)
	}
	return &FileRecord{
		ID:        id,
		RunID:     runID,
		Name:      name,
		Format:    format,
		Status:    StatusPending,
		UpdatedAt: now,
	}, nil
}

// Transition advances a file record to the next status, enforcing the state
// machine. An illegal step is a programming error and is rejected.
func (s *Store) Transition(ctx context.Context, record *FileRecord, to FileStatus) error {
	if !CanTransition(record.Status, to) {
		return fmt.Errorf("illegal transition %s -> %s for file %s", record.Status, to, record.Name)
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"UPDATE run_files SET status = ?, crest_factor_db = ?, error_message = ?, updated_at = ? WHERE id = ?",
		string(to), record.CrestFactorDB, record.ErrorMessage, now.Format(time.RFC3339Nano), record.ID,
	)
	if err != nil {
		return fmt.Errorf("transition file record: %w", err)
	}
	record.Status = to
	record.UpdatedAt = now
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source_dir, output_dir, started_at, finished_at, processed, failed, rows_written FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.SourceDir, &run.OutputDir, &started, &finished, &run.Processed, &run.Failed, &run.Rows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if finished.Valid {
			t, err := time.Parse(time.RFC3339Nano, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parse run finish time: %w", err)
			}
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FilesForRun returns the file records of a run in insertion order.
func (s *Store) FilesForRun(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, name, format, status, crest_factor_db, error_message, updated_at FROM run_files WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query file records: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var record FileRecord
		var status, updated string
		var crest sql.NullFloat64
		if err := rows.Scan(&record.ID, &record.RunID, &record.Name, &record.Format, &status, &crest, &record.ErrorMessage, &updated); err != nil {
			return nil, fmt.Errorf("scan file record: %w", err)
		}
		record.Status = FileStatus(status)
		if crest.Valid {
			value := crest.Float64
			record.CrestFactorDB = &value
		}
		if record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parse file record time: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
