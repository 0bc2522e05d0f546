package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/mercalytics/catalog-crawler/internal/listing"
	"github.com/mercalytics/catalog-crawler/internal/metrics"
)

// SQLiteStore lands products in a local SQLite file via modernc.org/sqlite.
// This is the primary store: the downstream dashboard reads the same file
// with a plain SELECT *.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLite opens (or creates) the SQLite database at the given path and
// configures WAL mode so the replace write never blocks readers.
func NewSQLite(dsn, table string) (*SQLiteStore, error) {
	if !ValidTableName(table) {
		return nil, eris.Errorf("sqlite: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, table: table}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceAll rebuilds the catalog table inside a single transaction: drop,
// create, insert every row, commit. A failure at any point rolls the whole
// write back, leaving the previous run's table intact.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, products []listing.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	ddl := fmt.Sprintf(`
DROP TABLE IF EXISTS %[1]s;
CREATE TABLE %[1]s (
	brand                 TEXT,
	name                  TEXT,
	old_price             REAL,
	new_price             REAL,
	review_rating_number  REAL,
	review_amount         INTEGER,
	_source               TEXT NOT NULL,
	_crawled_at           DATETIME NOT NULL
);`, s.table)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return eris.Wrapf(err, "sqlite: recreate table %s", s.table)
	}

	insert := fmt.Sprintf(`
INSERT INTO %s (brand, name, old_price, new_price, review_rating_number, review_amount, _source, _crawled_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.Brand,
			p.Name,
			p.OldPrice,
			p.NewPrice,
			p.Rating,
			p.ReviewCount,
			p.Source,
			p.CrawledAt.UTC(),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert product")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}
	metrics.AddRowsWritten(len(products))
	return nil
}
