package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// busyTimeoutMillis bounds how long a connection waits on a lock held by
// another process, such as a CLI run writing while the server reads.
const busyTimeoutMillis = "5000"

// SQLStore keeps every reconciliation run in a database/sql database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite results database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout("+busyTimeoutMillis+")")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer. Concurrent assay saves queue on the one
	// connection instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// WAL lets the HTTP server read while a CLI run writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return NewSQLStore(db), nil
}

// NewSQLStore wraps an open database whose schema already exists.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		assay TEXT NOT NULL,
		unknown_categories INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reconciliation_rows (
		run_id TEXT NOT NULL REFERENCES reconciliation_runs(run_id) ON DELETE CASCADE,
		table_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		changed_to TEXT NOT NULL DEFAULT '',
		clinvar_id TEXT NOT NULL DEFAULT '',
		evidence_prod TEXT NOT NULL DEFAULT '',
		evidence_dev TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, table_name, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_assay ON reconciliation_runs(assay, seq);
	`

	_, err := db.Exec(schema)
	return err
}

// Save writes a run and all of its rows in one transaction.
func (s *SQLStore) Save(ctx context.Context, res *domain.AssayResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO reconciliation_runs (run_id, assay, unknown_categories, created_at) VALUES (?, ?, ?, ?)",
		res.RunID, res.Assay, res.Unknown, res.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reconciliation_rows
			(run_id, table_name, position, category, changed_to, clinvar_id, evidence_prod, evidence_dev)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range flatten(res.Tables) {
		if _, err := stmt.ExecContext(ctx,
			res.RunID, r.Table, r.Position, r.Category, r.ChangedTo, r.ClinVarID, r.Prod, r.Dev,
		); err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", r.Table, r.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Latest returns the most recently saved run for assay, or domain.ErrNotFound.
func (s *SQLStore) Latest(ctx context.Context, assay string) (*domain.AssayResult, error) {
	res := &domain.AssayResult{}
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, assay, unknown_categories, created_at
		FROM reconciliation_runs
		WHERE assay = ?
		ORDER BY seq DESC
		LIMIT 1
	`, assay).Scan(&res.RunID, &res.Assay, &res.Unknown, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no run for assay %s: %w", assay, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name, position, category, changed_to, clinvar_id, evidence_prod, evidence_dev
		FROM reconciliation_rows
		WHERE run_id = ?
		ORDER BY table_name, position
	`, res.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run rows: %w", err)
	}
	defer rows.Close()

	var stored []storedRow
	for rows.Next() {
		var r storedRow
		if err := rows.Scan(&r.Table, &r.Position, &r.Category, &r.ChangedTo, &r.ClinVarID, &r.Prod, &r.Dev); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		stored = append(stored, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run rows: %w", err)
	}

	if res.Tables, err = unflatten(stored); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ domain.ResultStore = (*SQLStore)(nil)
