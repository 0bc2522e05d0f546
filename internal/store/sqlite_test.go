package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	st, err := NewSQLite(path, "mercadolivre")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func product(name string, price float64) listing.Product {
	return listing.Product{
		Name:      &name,
		NewPrice:  &price,
		Source:    "https://lista.example.com/geladeira-frost-free",
		CrawledAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n))
	return n
}

func TestSQLiteInvalidTableName(t *testing.T) {
	t.Parallel()

	_, err := NewSQLite(filepath.Join(t.TempDir(), "x.db"), "drop table; --")
	require.Error(t, err)
}

func TestSQLiteReplaceAll(t *testing.T) {
	t.Parallel()

	st, path := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceAll(ctx, []listing.Product{
		product("a", 1999),
		product("b", 2849),
	}))
	require.Equal(t, 2, countRows(t, path, "mercadolivre"))
}

// TestSQLiteFullReplaceSemantics runs the write twice with different sizes:
// the table must contain exactly the second run's rows, never a union.
func TestSQLiteFullReplaceSemantics(t *testing.T) {
	t.Parallel()

	st, path := newTestSQLite(t)
	ctx := context.Background()

	first := []listing.Product{product("a", 1), product("b", 2), product("c", 3)}
	require.NoError(t, st.ReplaceAll(ctx, first))
	require.Equal(t, 3, countRows(t, path, "mercadolivre"))

	second := []listing.Product{product("d", 4)}
	require.NoError(t, st.ReplaceAll(ctx, second))
	require.Equal(t, 1, countRows(t, path, "mercadolivre"))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow("SELECT name FROM mercadolivre").Scan(&name))
	require.Equal(t, "d", name)
}

// TestSQLiteNullableColumns checks the downstream read contract: numeric
// columns are NULL where normalization yielded nothing.
func TestSQLiteNullableColumns(t *testing.T) {
	t.Parallel()

	st, path := newTestSQLite(t)
	ctx := context.Background()

	zero := int64(0)
	p := listing.Product{
		// Brand, prices and rating all unknown.
		ReviewCount: &zero,
		Source:      "https://lista.example.com/geladeira-frost-free",
		CrawledAt:   time.Now().UTC(),
	}
	require.NoError(t, st.ReplaceAll(ctx, []listing.Product{p}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var (
		brand    sql.NullString
		name     sql.NullString
		oldPrice sql.NullFloat64
		newPrice sql.NullFloat64
		rating   sql.NullFloat64
		reviews  sql.NullInt64
		source   string
	)
	row := db.QueryRow("SELECT brand, name, old_price, new_price, review_rating_number, review_amount, _source FROM mercadolivre")
	require.NoError(t, row.Scan(&brand, &name, &oldPrice, &newPrice, &rating, &reviews, &source))

	require.False(t, brand.Valid)
	require.False(t, name.Valid)
	require.False(t, oldPrice.Valid)
	require.False(t, newPrice.Valid)
	require.False(t, rating.Valid)
	require.True(t, reviews.Valid)
	require.Zero(t, reviews.Int64)
	require.Equal(t, "https://lista.example.com/geladeira-frost-free", source)
}

func TestSQLiteReplaceAllEmptyRun(t *testing.T) {
	t.Parallel()

	st, path := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceAll(ctx, []listing.Product{product("a", 1)}))
	require.NoError(t, st.ReplaceAll(ctx, nil))
	require.Equal(t, 0, countRows(t, path, "mercadolivre"))
}
