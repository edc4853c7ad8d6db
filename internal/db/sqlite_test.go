package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDBCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "labels.db")

	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "labels.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	var columns []string
	require.NoError(t, db.Select(&columns, `SELECT name FROM pragma_table_info('jobs') ORDER BY cid`))
	assert.Equal(t, []string{
		"id", "filename", "file_size", "state", "chunk_count", "record_count", "records",
		"error_code", "error_message", "archive_key", "created_at", "updated_at", "completed_at",
	}, columns)
}
