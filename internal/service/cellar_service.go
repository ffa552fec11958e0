package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/repository"
)

// maxCellarName is the length of cellars.name.
const maxCellarName = 255

// CellarService creates cellars together with their rack slots and
// removes them again.
type CellarService struct {
	db      *sql.DB
	cellars *repository.CellarRepo
	spaces  *repository.CellarSpaceRepo
}

// NewCellarService constructs a CellarService with the given DB handle and repositories.
func NewCellarService(db *sql.DB, cellars *repository.CellarRepo, spaces *repository.CellarSpaceRepo) *CellarService {
	return &CellarService{db: db, cellars: cellars, spaces: spaces}
}

// Create validates the layout, then inserts the cellar and one rack slot
// per coordinate in a single transaction, so a cellar never exists
// without its slots.
func (s *CellarService) Create(ctx context.Context, owner, name string, layout model.Layout, hasBasket bool) (*model.Cellar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxCellarName {
		return nil, fmt.Errorf("%w: name exceeds %d characters", ErrValidation, maxCellarName)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if layout == nil {
		layout = model.Layout{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	c := &model.Cellar{OwnerID: owner, Name: name, Layout: layout, HasBasket: hasBasket}
	if err := s.cellars.CreateTx(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("create cellar: %w", err)
	}
	if _, err := s.spaces.CreateRackSlotsTx(ctx, tx, c.ID, layout); err != nil {
		return nil, storageErr("create rack slots", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit", err)
	}
	committed = true
	return c, nil
}

// List returns the owner's cellars.
func (s *CellarService) List(ctx context.Context, owner string) ([]model.Cellar, error) {
	return s.cellars.ListByOwner(ctx, owner)
}

// Get returns a cellar with every slot.
func (s *CellarService) Get(ctx context.Context, owner, id string) (*model.CellarDetail, error) {
	c, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	spaces, err := s.spaces.ListByCellar(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &model.CellarDetail{Cellar: *c, Spaces: spaces}, nil
}

// Layout returns the immutable shape of a cellar.
func (s *CellarService) Layout(ctx context.Context, owner, id string) (*model.CellarLayout, error) {
	c, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	shape := c.Shape()
	return &shape, nil
}

// Delete removes a cellar and its slots.  Wines stored in it are kept
// and end up outside.
func (s *CellarService) Delete(ctx context.Context, owner, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.cellars.GetByIDAndOwnerTx(ctx, tx, id, owner); err != nil {
		return notFound(err, "cellar", id)
	}
	if err := s.spaces.DeleteByCellarTx(ctx, tx, id); err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}
	if err := s.cellars.DeleteTx(ctx, tx, id, owner); err != nil {
		return notFound(err, "cellar", id)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	committed = true
	return nil
}

func (s *CellarService) find(ctx context.Context, owner, id string) (*model.Cellar, error) {
	c, err := s.cellars.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, notFound(err, "cellar", id)
	}
	return c, nil
}

// notFound turns a repository not-found sentinel into ErrNotFound and
// passes other errors through.
func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrCellarNotFound) || errors.Is(err, repository.ErrWineNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return err
}
