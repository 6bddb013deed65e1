package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/platform/config"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:data/a.db?"+sqlitePragmas, SQLiteDSN("data/a.db"))
	assert.Equal(t, "file:data/a.db?"+sqlitePragmas, SQLiteDSN("file:data/a.db"))
	assert.Equal(t, "file:a.db?cache=shared", SQLiteDSN("file:a.db?cache=shared"))
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite3", DSN: path})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	assert.FileExists(t, path)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported")
}
