package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/queue"
	"github.com/iliyamo/wine-cellar/internal/repository"
)

// PlacementService moves wines between outside, baskets and rack slots.
// Occupancy lives only on cellar_spaces.wine_id; every mutation is a
// guarded single-column write on a slot.
type PlacementService struct {
	db      *sql.DB
	cellars *repository.CellarRepo
	spaces  *repository.CellarSpaceRepo
	wines   *repository.WineRepo
	events  EventPublisher // nil disables publishing
}

// NewPlacementService wires the engine.  events may be nil.
func NewPlacementService(db *sql.DB, cellars *repository.CellarRepo, spaces *repository.CellarSpaceRepo, wines *repository.WineRepo, events EventPublisher) *PlacementService {
	return &PlacementService{db: db, cellars: cellars, spaces: spaces, wines: wines, events: events}
}

// placeMode selects what happens when a rack target is held by another
// wine.
type placeMode int

const (
	modeSwap   placeMode = iota // move: displaced wine takes the source slot
	modeStrict                  // creation: occupied target is a conflict
)

// Move relocates a wine owned by owner and returns the resulting
// occupancy changes: none when nothing had to change, one for a plain
// move, two for a swap (the moving wine first).
func (s *PlacementService) Move(ctx context.Context, owner, wineID string, target model.Target) ([]model.Change, error) {
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

	if _, _, err := s.wines.GetByIDAndOwnerTx(ctx, tx, wineID, owner); err != nil {
		return nil, notFound(err, "wine", wineID)
	}

	changes, err := s.placeTx(ctx, tx, owner, wineID, target, modeSwap)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit", err)
	}
	committed = true

	s.publish(ctx, queue.KindMove, owner, wineID, changes)
	return changes, nil
}

// CreateWine inserts a wine and places it at target in the same
// transaction.  An occupied rack target fails with ErrConflict and
// leaves no wine behind.
func (s *PlacementService) CreateWine(ctx context.Context, owner string, w *model.Wine, target model.Target) (*model.WineView, error) {
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

	w.ID = ""
	w.OwnerID = owner
	if err := s.wines.CreateTx(ctx, tx, w); err != nil {
		return nil, fmt.Errorf("create wine: %w", err)
	}

	changes, err := s.placeTx(ctx, tx, owner, w.ID, target, modeStrict)
	if err != nil {
		return nil, err
	}

	stored, placement, err := s.wines.GetByIDAndOwnerTx(ctx, tx, w.ID, owner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit", err)
	}
	committed = true

	s.publish(ctx, queue.KindCreate, owner, w.ID, changes)
	view := model.NewWineView(*stored, placement)
	return &view, nil
}

// DeleteWine removes a wine and vacates its slot.
func (s *PlacementService) DeleteWine(ctx context.Context, owner, wineID string) error {
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

	if _, _, err := s.wines.GetByIDAndOwnerTx(ctx, tx, wineID, owner); err != nil {
		return notFound(err, "wine", wineID)
	}
	if err := s.spaces.VacateWineTx(ctx, tx, wineID); err != nil {
		return storageErr("vacate", err)
	}
	if err := s.wines.DeleteByIDAndOwnerTx(ctx, tx, wineID, owner); err != nil {
		return notFound(err, "wine", wineID)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	committed = true
	return nil
}

// placeTx resolves the destination fully before the first write, then
// applies vacate source -> occupy destination -> occupy source with the
// displaced wine.  The wine must already be known to belong to owner.
func (s *PlacementService) placeTx(ctx context.Context, tx *sql.Tx, owner, wineID string, target model.Target, mode placeMode) ([]model.Change, error) {
	var cellar *model.Cellar
	if target.Kind != model.TargetOutside {
		c, err := s.cellars.GetByIDAndOwnerTx(ctx, tx, target.CellarID, owner)
		if err != nil {
			return nil, notFound(err, "cellar", target.CellarID)
		}
		cellar = c
	}

	from, err := s.spaces.FindOccupantSlotTx(ctx, tx, wineID)
	if err != nil {
		return nil, err
	}

	switch target.Kind {
	case model.TargetOutside:
		return s.toOutside(ctx, tx, wineID, from)
	case model.TargetBasket:
		return s.toBasket(ctx, tx, wineID, from, cellar)
	case model.TargetRack:
		return s.toRack(ctx, tx, wineID, from, cellar, target, mode)
	}
	return nil, fmt.Errorf("%w: unknown target kind %d", ErrValidation, target.Kind)
}

func (s *PlacementService) toOutside(ctx context.Context, tx *sql.Tx, wineID string, from *model.CellarSpace) ([]model.Change, error) {
	if from == nil {
		return []model.Change{}, nil
	}
	if err := s.spaces.SetOccupantTx(ctx, tx, from.ID, &wineID, nil); err != nil {
		return nil, storageErr("vacate source", err)
	}
	return []model.Change{model.ChangeOutside(wineID)}, nil
}

func (s *PlacementService) toBasket(ctx context.Context, tx *sql.Tx, wineID string, from *model.CellarSpace, cellar *model.Cellar) ([]model.Change, error) {
	// Baskets are fungible: already in one of this cellar's baskets means done.
	if from.IsBasket() && from.CellarID == cellar.ID {
		return []model.Change{}, nil
	}
	if !cellar.HasBasket {
		return nil, fmt.Errorf("%w: cellar %s has no basket", ErrNotFound, cellar.ID)
	}
	basket, err := s.spaces.FindOrCreateEmptyBasketTx(ctx, tx, cellar)
	if err != nil {
		return nil, storageErr("basket", err)
	}
	if basket == nil {
		return nil, fmt.Errorf("%w: cellar %s has no basket", ErrNotFound, cellar.ID)
	}

	if from != nil {
		if err := s.spaces.SetOccupantTx(ctx, tx, from.ID, &wineID, nil); err != nil {
			return nil, storageErr("vacate source", err)
		}
	}
	if err := s.spaces.SetOccupantTx(ctx, tx, basket.ID, nil, &wineID); err != nil {
		return nil, storageErr("occupy basket", err)
	}
	return []model.Change{model.ChangeAt(wineID, basket)}, nil
}

func (s *PlacementService) toRack(ctx context.Context, tx *sql.Tx, wineID string, from *model.CellarSpace, cellar *model.Cellar, target model.Target, mode placeMode) ([]model.Change, error) {
	slot, err := s.spaces.FindByPositionTx(ctx, tx, cellar.ID, target.Row, target.Column)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: position %d-%d in cellar %s", ErrNotFound, target.Row, target.Column, cellar.ID)
	}
	if slot.OccupiedBy(wineID) {
		return []model.Change{model.ChangeAt(wineID, slot)}, nil
	}

	displaced := slot.WineID
	if displaced != nil && mode == modeStrict {
		return nil, fmt.Errorf("%w: position %d-%d is occupied", ErrConflict, target.Row, target.Column)
	}

	if from != nil {
		if err := s.spaces.SetOccupantTx(ctx, tx, from.ID, &wineID, nil); err != nil {
			return nil, storageErr("vacate source", err)
		}
	}
	if err := s.spaces.SetOccupantTx(ctx, tx, slot.ID, displaced, &wineID); err != nil {
		return nil, storageErr("occupy target", err)
	}
	changes := []model.Change{model.ChangeAt(wineID, slot)}
	if displaced == nil {
		return changes, nil
	}

	if from == nil {
		return append(changes, model.ChangeOutside(*displaced)), nil
	}
	if err := s.spaces.SetOccupantTx(ctx, tx, from.ID, nil, displaced); err != nil {
		return nil, storageErr("occupy source", err)
	}
	return append(changes, model.ChangeAt(*displaced, from)), nil
}

func (s *PlacementService) publish(ctx context.Context, kind, owner, wineID string, changes []model.Change) {
	if s.events == nil || len(changes) == 0 {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.PublishWineMoved(pctx, newMovedEvent(kind, owner, wineID, changes)); err != nil {
		log.Printf("placement: publish %s for wine %s failed: %v", kind, wineID, err)
	}
}
