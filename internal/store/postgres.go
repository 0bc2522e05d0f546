package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/mercalytics/catalog-crawler/internal/listing"
	"github.com/mercalytics/catalog-crawler/internal/metrics"
)

// PostgresConfig controls the Postgres connection pool.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// txBeginner is the slice of pgxpool.Pool the store needs; narrowed so tests
// can substitute pgxmock.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore lands products in a shared Postgres warehouse. Same
// full-replace contract as the SQLite store, for deployments where the
// reporting layer is not on the crawling host.
type PostgresStore struct {
	pool  txBeginner
	table string
}

// NewPostgres creates a Postgres-backed store using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, eris.New("postgres: dsn is required")
	}
	if !ValidTableName(cfg.Table) {
		return nil, eris.Errorf("postgres: invalid table name %q", cfg.Table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse dsn")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, table: cfg.Table}, nil
}

// NewPostgresWithPool constructs a store from an existing pool (primarily
// for testing).
func NewPostgresWithPool(pool txBeginner, table string) (*PostgresStore, error) {
	if pool == nil {
		return nil, eris.New("postgres: pool is required")
	}
	if !ValidTableName(table) {
		return nil, eris.Errorf("postgres: invalid table name %q", table)
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *PostgresStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// ReplaceAll rebuilds the catalog table in one transaction.
func (s *PostgresStore) ReplaceAll(ctx context.Context, products []listing.Product) error {
	if s == nil || s.pool == nil {
		return eris.New("postgres: store is not configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table)); err != nil {
		return eris.Wrapf(err, "postgres: drop table %s", s.table)
	}
	ddl := fmt.Sprintf(`
CREATE TABLE %s (
	brand                 TEXT,
	name                  TEXT,
	old_price             DOUBLE PRECISION,
	new_price             DOUBLE PRECISION,
	review_rating_number  DOUBLE PRECISION,
	review_amount         BIGINT,
	_source               TEXT NOT NULL,
	_crawled_at           TIMESTAMPTZ NOT NULL
)`, s.table)
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return eris.Wrapf(err, "postgres: recreate table %s", s.table)
	}

	insert := fmt.Sprintf(`
INSERT INTO %s (brand, name, old_price, new_price, review_rating_number, review_amount, _source, _crawled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)
	for _, p := range products {
		if _, err := tx.Exec(ctx, insert,
			p.Brand,
			p.Name,
			p.OldPrice,
			p.NewPrice,
			p.Rating,
			p.ReviewCount,
			p.Source,
			p.CrawledAt.UTC(),
		); err != nil {
			return eris.Wrap(err, "postgres: insert product")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}
	metrics.AddRowsWritten(len(products))
	return nil
}
