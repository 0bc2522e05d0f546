package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mercalytics/catalog-crawler/internal/store"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewWithSQLiteStore(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	path := writeConfig(t, `
store:
  provider: sqlite
  sqlite:
    path: `+dbPath+`
`)

	app, err := New(context.Background(), path)
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Logger())
	require.IsType(t, &store.SQLiteStore{}, app.Store())
	require.Equal(t, "mercadolivre", app.Config().Store.Table)
}

func TestNewWithNoOpStore(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
store:
  provider: noop
`)

	app, err := New(context.Background(), path)
	require.NoError(t, err)
	defer app.Close()

	require.IsType(t, store.NoOp{}, app.Store())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
store:
  provider: dynamo
`)

	_, err := New(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown store provider")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
crawler:
  max_pages: 0
`)

	_, err := New(context.Background(), path)
	require.Error(t, err)
}

func TestNewMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
