package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/wine-cellar/internal/database"
	"github.com/iliyamo/wine-cellar/internal/model"
)

// openTestDB returns a migrated SQLite database private to the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cellar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func createUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id, err := NewUserRepo(db).Create(context.Background(), uuid.NewString()+"@example.com", "secret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	return id
}

// inTx runs fn in a transaction and commits it.
func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func createCellar(t *testing.T, db *sql.DB, owner string, layout model.Layout, hasBasket bool) *model.Cellar {
	t.Helper()
	c := &model.Cellar{OwnerID: owner, Name: "Home", Layout: layout, HasBasket: hasBasket}
	inTx(t, db, func(tx *sql.Tx) {
		require.NoError(t, NewCellarRepo(db).CreateTx(context.Background(), tx, c))
		_, err := NewCellarSpaceRepo(db).CreateRackSlotsTx(context.Background(), tx, c.ID, layout)
		require.NoError(t, err)
	})
	return c
}

func createWine(t *testing.T, db *sql.DB, owner, name string) *model.Wine {
	t.Helper()
	w := &model.Wine{OwnerID: owner, Name: name}
	inTx(t, db, func(tx *sql.Tx) {
		require.NoError(t, NewWineRepo(db).CreateTx(context.Background(), tx, w))
	})
	return w
}
