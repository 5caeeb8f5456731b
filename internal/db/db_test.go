package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.NoError(t, db.Ping())
}

func TestOpenForTesting_Isolated(t *testing.T) {
	a, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })
	b, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, b.Close()) })

	_, err = a.Exec(`INSERT INTO items (id, type, title, created_at, updated_at)
		VALUES ('x', 'aluguel', 'Casa', '2025-01-01 00:00:00', '2025-01-01 00:00:00')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, b.QueryRow("SELECT COUNT(*) FROM items").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrationsApply(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	for _, table := range []string{"site_config", "items", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.NoError(t, runMigrations(db))
}

func TestItemsTypeConstraint(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	_, err = db.Exec(`INSERT INTO items (id, type, title, created_at, updated_at)
		VALUES ('x', 'venda', 'Casa', '2025-01-01 00:00:00', '2025-01-01 00:00:00')`)
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobianco.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an already migrated file is a no-op.
	db, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
