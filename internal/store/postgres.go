package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// PostgresStore keeps reconciliation runs in a shared postgres database. The
// schema comes from MigrationRunner.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewPostgresStore creates a connection pool and checks it with a ping
func NewPostgresStore(ctx context.Context, config domain.DatabaseConfig, logger *logrus.Logger) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		config.Host, config.Port, config.Database, config.Username, config.Password, config.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MinConns = config.MinConns
	if config.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = config.ConnMaxLifetime
	}
	if config.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = config.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":      config.Host,
		"port":      config.Port,
		"database":  config.Database,
		"max_conns": poolConfig.MaxConns,
	}).Info("Database connection pool established")

	return &PostgresStore{pool: pool, log: logger}, nil
}

// Save writes a run and its rows in one transaction
func (s *PostgresStore) Save(ctx context.Context, res *domain.AssayResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(
		`INSERT INTO reconciliation_runs (run_id, assay, unknown_categories, created_at) VALUES ($1, $2, $3, $4)`,
		res.RunID, res.Assay, res.Unknown, res.CreatedAt,
	)
	for _, r := range flatten(res.Tables) {
		batch.Queue(`
			INSERT INTO reconciliation_rows
				(run_id, table_name, position, category, changed_to, clinvar_id, evidence_prod, evidence_dev)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			res.RunID, r.Table, r.Position, r.Category, r.ChangedTo, r.ClinVarID, r.Prod, r.Dev,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting run %s: %w", res.RunID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing run %s: %w", res.RunID, err)
	}

	s.log.WithFields(logrus.Fields{
		"assay":  res.Assay,
		"run_id": res.RunID,
		"rows":   batch.Len() - 1,
	}).Debug("Run stored in postgres")
	return nil
}

// Latest returns the most recently saved run for assay, or domain.ErrNotFound
func (s *PostgresStore) Latest(ctx context.Context, assay string) (*domain.AssayResult, error) {
	res := &domain.AssayResult{}
	err := s.pool.QueryRow(ctx, `
		SELECT run_id::text, assay, unknown_categories, created_at
		FROM reconciliation_runs
		WHERE assay = $1
		ORDER BY id DESC
		LIMIT 1`, assay,
	).Scan(&res.RunID, &res.Assay, &res.Unknown, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no run for assay %s: %w", assay, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT table_name, position, category, changed_to, clinvar_id, evidence_prod, evidence_dev
		FROM reconciliation_rows
		WHERE run_id = $1
		ORDER BY table_name, position`, res.RunID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run rows: %w", err)
	}

	stored, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storedRow, error) {
		var r storedRow
		err := row.Scan(&r.Table, &r.Position, &r.Category, &r.ChangedTo, &r.ClinVarID, &r.Prod, &r.Dev)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading run rows: %w", err)
	}

	if res.Tables, err = unflatten(stored); err != nil {
		return nil, err
	}
	return res, nil
}

// Health pings the database
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	s.log.Info("Database connection pool closed")
	return nil
}

var _ domain.ResultStore = (*PostgresStore)(nil)
