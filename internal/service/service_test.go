package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/wine-cellar/internal/database"
	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/queue"
	"github.com/iliyamo/wine-cellar/internal/repository"
)

// recorder is an EventPublisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []queue.WineMovedEvent
	err    error
}

func (r *recorder) PublishWineMoved(_ context.Context, ev queue.WineMovedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) all() []queue.WineMovedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.WineMovedEvent(nil), r.events...)
}

type fixture struct {
	db        *sql.DB
	cellars   *CellarService
	placement *PlacementService
	spaces    *repository.CellarSpaceRepo
	wines     *repository.WineRepo
	events    *recorder
	owner     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cellar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	cellarRepo := repository.NewCellarRepo(db)
	spaceRepo := repository.NewCellarSpaceRepo(db)
	wineRepo := repository.NewWineRepo(db)
	events := &recorder{}

	f := &fixture{
		db:        db,
		cellars:   NewCellarService(db, cellarRepo, spaceRepo),
		placement: NewPlacementService(db, cellarRepo, spaceRepo, wineRepo, events),
		spaces:    spaceRepo,
		wines:     wineRepo,
		events:    events,
	}
	f.owner = f.newUser(t)
	return f
}

func (f *fixture) newUser(t *testing.T) string {
	t.Helper()
	id, err := repository.NewUserRepo(f.db).Create(context.Background(), uuid.NewString()+"@example.com", "secret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	return id
}

func (f *fixture) cellar(t *testing.T, layout model.Layout, hasBasket bool) *model.Cellar {
	t.Helper()
	c, err := f.cellars.Create(context.Background(), f.owner, "Cellar", layout, hasBasket)
	require.NoError(t, err)
	return c
}

// wine creates an unplaced wine.
func (f *fixture) wine(t *testing.T, name string) string {
	t.Helper()
	v, err := f.placement.CreateWine(context.Background(), f.owner, &model.Wine{Name: name}, model.Outside())
	require.NoError(t, err)
	return v.ID
}

// placeAt puts wineID at (row, column), failing the test on error.
func (f *fixture) placeAt(t *testing.T, wineID, cellarID string, row, column int) {
	t.Helper()
	_, err := f.placement.Move(context.Background(), f.owner, wineID, model.Rack(cellarID, row, column))
	require.NoError(t, err)
}

// placement returns where wineID is, nil when outside.
func (f *fixture) where(t *testing.T, wineID string) *model.Placement {
	t.Helper()
	_, p, err := f.wines.GetByIDAndOwner(context.Background(), wineID, f.owner)
	require.NoError(t, err)
	return p
}

// occupancy maps slot id to occupant for a cellar.
func (f *fixture) occupancy(t *testing.T, cellarID string) map[string]string {
	t.Helper()
	spaces, err := f.spaces.ListByCellar(context.Background(), cellarID)
	require.NoError(t, err)
	out := map[string]string{}
	for _, s := range spaces {
		if s.WineID != nil {
			out[s.ID] = *s.WineID
		}
	}
	return out
}

func (f *fixture) basketCount(t *testing.T, cellarID string) int {
	t.Helper()
	spaces, err := f.spaces.ListByCellar(context.Background(), cellarID)
	require.NoError(t, err)
	n := 0
	for _, s := range spaces {
		if s.IsBasket() {
			n++
		}
	}
	return n
}

func ptr[T any](v T) *T { return &v }
