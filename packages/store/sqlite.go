// Package store keeps converted sheets in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jdpolicano/excel/packages/sheet"
)

// ErrRunNotFound is returned when a run ID is unknown
var ErrRunNotFound = errors.New("run not found")

// Config holds SQLite store configuration
type Config struct {
	Path string
}

// DefaultConfig returns default store configuration
func DefaultConfig() Config {
	return Config{Path: "./excel.db"}
}

// Store records conversion runs and their cells
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Run is one stored conversion
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Rows      int
	Cells     int
	Formulas  int
	Failures  int
}

// CellRecord is one stored field
type CellRecord struct {
	Row     int
	Column  int
	Address string
	Kind    string
	Raw     string
	Value   string // rendered output text
	Formula string // canonical form, empty unless the formula parsed
	Error   string // parse error, empty unless the formula failed
}

// Open opens or creates the database at cfg.Path
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg = DefaultConfig()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		cell_count INTEGER NOT NULL,
		formula_count INTEGER NOT NULL,
		failure_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		run_id TEXT NOT NULL,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		address TEXT NOT NULL,
		kind TEXT NOT NULL,
		raw TEXT NOT NULL,
		value TEXT NOT NULL,
		formula TEXT NOT NULL DEFAULT '',
		parse_error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, row_idx, col_idx),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_cells_kind ON cells(run_id, kind);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSheet stores every field of sh under a new run ID
func (s *Store) SaveSheet(ctx context.Context, source string, sh *sheet.Sheet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.New().String()
	stats := sh.Stats()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, created_at, row_count, cell_count, formula_count, failure_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, source, time.Now().UTC().Format(time.RFC3339Nano),
		stats.Rows, stats.Cells, stats.Formulas, stats.ParseFailures)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (run_id, row_idx, col_idx, address, kind, raw, value, formula, parse_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare cell statement: %w", err)
	}
	defer stmt.Close()

	for r, row := range sh.Rows {
		for c := range row {
			field := &row[c]
			addr := sheet.CellAddress{Row: r, Column: c}

			var canonical, parseErr string
			if field.Formula != nil {
				canonical = field.Formula.ToString()
			}
			if field.Err != nil {
				parseErr = field.Err.Error()
			}

			if _, err := stmt.ExecContext(ctx, runID, r, c, addr.String(), field.Kind.String(),
				field.Raw, field.String(), canonical, parseErr); err != nil {
				return "", fmt.Errorf("failed to insert cell %s: %w", addr, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return runID, nil
}

// Cells returns the cells of a run in row-major order
func (s *Store) Cells(ctx context.Context, runID string) ([]CellRecord, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_idx, col_idx, address, kind, raw, value, formula, parse_error
		FROM cells WHERE run_id = ? ORDER BY row_idx, col_idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	var cells []CellRecord
	for rows.Next() {
		var c CellRecord
		if err := rows.Scan(&c.Row, &c.Column, &c.Address, &c.Kind, &c.Raw, &c.Value, &c.Formula, &c.Error); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// Run returns a single run
func (s *Store) Run(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, created_at, row_count, cell_count, formula_count, failure_count
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// Runs returns every run, newest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, created_at, row_count, cell_count, formula_count, failure_count
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its cells
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run     Run
		created string
	)
	if err := sc.Scan(&run.ID, &run.Source, &created, &run.Rows, &run.Cells, &run.Formulas, &run.Failures); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid run timestamp %q: %w", created, err)
	}
	run.CreatedAt = t
	return &run, nil
}
