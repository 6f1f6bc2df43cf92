package statestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRunsMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	db.Close()

	// Reopening the same file must not fail or re-run migrations.
	db2, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)
	defer db2.Close()
	require.NoError(t, db2.Ping(context.Background()))
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	db, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping(context.Background()))
}
