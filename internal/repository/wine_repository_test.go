package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wine-cellar/internal/model"
)

func TestWineRepoCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner, other := createUser(t, db), createUser(t, db)
	repo := NewWineRepo(db)

	vintage, price := 2016, 4500
	bought := "2021-03-04"
	w := &model.Wine{OwnerID: owner, Name: "Barolo", Producer: "Vietti", Vintage: &vintage, Price: &price, BoughtOn: &bought}
	inTx(t, db, func(tx *sql.Tx) { require.NoError(t, repo.CreateTx(ctx, tx, w)) })

	got, p, err := repo.GetByIDAndOwner(ctx, w.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, "Vietti", got.Producer)
	require.NotNil(t, got.Vintage)
	assert.Equal(t, 2016, *got.Vintage)
	assert.Equal(t, "2021-03-04", *got.BoughtOn)
	assert.Nil(t, got.DrunkOn)

	_, _, err = repo.GetByIDAndOwner(ctx, w.ID, other)
	assert.ErrorIs(t, err, ErrWineNotFound)

	got.Note = "decant"
	got.Vintage = nil
	require.NoError(t, repo.UpdateDetails(ctx, got))
	// Writing identical values again must not look like a missing row.
	require.NoError(t, repo.UpdateDetails(ctx, got))

	got, _, err = repo.GetByIDAndOwner(ctx, w.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "decant", got.Note)
	assert.Nil(t, got.Vintage)

	missing := *got
	missing.OwnerID = other
	assert.ErrorIs(t, repo.UpdateDetails(ctx, &missing), ErrWineNotFound)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.DeleteByIDAndOwnerTx(ctx, tx, w.ID, other), ErrWineNotFound)
	require.NoError(t, repo.DeleteByIDAndOwnerTx(ctx, tx, w.ID, owner))
	require.NoError(t, tx.Commit())

	_, _, err = repo.GetByIDAndOwner(ctx, w.ID, owner)
	assert.ErrorIs(t, err, ErrWineNotFound)
}

func TestWineRepoPlacementIsDerived(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db)
	c := createCellar(t, db, owner, model.Layout{2, 2}, true)
	rack := createWine(t, db, owner, "Rack")
	basket := createWine(t, db, owner, "Basket")
	outside := createWine(t, db, owner, "Outside")
	spaces, repo := NewCellarSpaceRepo(db), NewWineRepo(db)

	inTx(t, db, func(tx *sql.Tx) {
		s, err := spaces.FindByPositionTx(ctx, tx, c.ID, 2, 1)
		require.NoError(t, err)
		require.NoError(t, spaces.SetOccupantTx(ctx, tx, s.ID, nil, &rack.ID))

		b, err := spaces.FindOrCreateEmptyBasketTx(ctx, tx, c)
		require.NoError(t, err)
		require.NoError(t, spaces.SetOccupantTx(ctx, tx, b.ID, nil, &basket.ID))
	})

	views, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byName := map[string]model.WineView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.Equal(t, "2-1", *byName["Rack"].Position)
	assert.Equal(t, c.ID, *byName["Rack"].CellarID)
	assert.Equal(t, "basket", *byName["Basket"].Position)
	assert.Nil(t, byName["Outside"].Position)
	assert.Nil(t, byName["Outside"].CellarID)

	_, p, err := repo.GetByIDAndOwner(ctx, outside.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, p)
}
