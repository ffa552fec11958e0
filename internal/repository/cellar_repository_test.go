package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wine-cellar/internal/model"
)

func TestCellarRepoOwnership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice, bob := createUser(t, db), createUser(t, db)
	repo := NewCellarRepo(db)

	c := createCellar(t, db, alice, model.Layout{3, 0, 2}, true)
	assert.NotEmpty(t, c.ID)
	assert.NotEmpty(t, c.CreatedAt)

	got, err := repo.GetByIDAndOwner(ctx, c.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)
	assert.Equal(t, model.Layout{3, 0, 2}, got.Layout)
	assert.True(t, got.HasBasket)

	_, err = repo.GetByIDAndOwner(ctx, c.ID, bob)
	assert.ErrorIs(t, err, ErrCellarNotFound)

	list, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.ListByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	assert.ErrorIs(t, repo.DeleteTx(ctx, tx, c.ID, bob), ErrCellarNotFound)
}

func TestCellarRepoEmptyLayout(t *testing.T) {
	db := openTestDB(t)
	owner := createUser(t, db)
	c := &model.Cellar{OwnerID: owner, Name: "Basket only", HasBasket: true}
	inTx(t, db, func(tx *sql.Tx) {
		require.NoError(t, NewCellarRepo(db).CreateTx(context.Background(), tx, c))
	})

	got, err := NewCellarRepo(db).GetByIDAndOwner(context.Background(), c.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, model.Layout{}, got.Layout)
}
