// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the matched records of a scan in SQLite so they
// can be grouped and counted after the run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deis-covid/pkg/types"
)

// ErrNoRuns reports a store that holds no completed run.
var ErrNoRuns = errors.New("no runs stored")

// Store manages the run database.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one stored scan.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	Source      string    `json:"source" yaml:"source"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Batches     int       `json:"batches" yaml:"batches"`
	RowsScanned int       `json:"rows_scanned" yaml:"rows_scanned"`
	Matches     int       `json:"matches" yaml:"matches"`
	Columns     []string  `json:"columns" yaml:"columns"`
}

// Open opens or creates the database at cfg.DB and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.DB == "" {
		return nil, fmt.Errorf("store: database path is empty")
	}
	if dir := filepath.Dir(cfg.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DB+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: cfg.DB}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			batches INTEGER NOT NULL,
			rows_scanned INTEGER NOT NULL,
			matches INTEGER NOT NULL,
			columns TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cells (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			column_name TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (run_id, seq, column_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cells_column ON cells(run_id, column_name, value)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores the matched records of run, replacing any earlier run of
// the same source. Missing cells are not stored. It returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, records []types.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE source = ?`, run.Source); err != nil {
		return 0, fmt.Errorf("deleting previous runs: %w", err)
	}

	columnsJSON, err := json.Marshal(run.Columns)
	if err != nil {
		return 0, fmt.Errorf("marshaling columns: %w", err)
	}

	resExec, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, started_at, finished_at, batches, rows_scanned, matches, columns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Batches, run.RowsScanned, len(records), string(columnsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := resExec.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (run_id, seq, column_name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for seq, rec := range records {
		for i, col := range run.Columns {
			v := rec.Cell(i)
			if v == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, runID, seq, col, v); err != nil {
				return 0, fmt.Errorf("inserting record %d: %w", seq+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently stored run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var (
		run               Run
		started, finished string
		columnsJSON       string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, finished_at, batches, rows_scanned, matches, columns
		 FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &started, &finished, &run.Batches, &run.RowsScanned, &run.Matches, &columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parsing run %d start time: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parsing run %d finish time: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(columnsJSON), &run.Columns); err != nil {
		return Run{}, fmt.Errorf("parsing run columns: %w", err)
	}
	return run, nil
}
