package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "cellar.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db))

	for _, table := range Tables() {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
	assert.Equal(t, []string{"users", "refresh_tokens", "cellars", "wines", "cellar_spaces"}, Tables())
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cellar.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(context.Background(), db))

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err = db.Exec(`INSERT INTO cellars (id, owner_id, name, layout) VALUES ('c', 'nobody', 'x', '[]')`)
	assert.Error(t, err)
}

func TestOpenDSN(t *testing.T) {
	_, err := OpenDSN("postgres", "whatever")
	assert.ErrorContains(t, err, "unsupported")

	db, err := OpenDSN(DriverSQLite, filepath.Join(t.TempDir(), "bare.db"))
	require.NoError(t, err)
	defer db.Close()
	assert.NoError(t, db.Ping())
}
