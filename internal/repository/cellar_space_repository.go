package repository // repository defines data access for cellar spaces

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/wine-cellar/internal/model"
)

// CellarSpaceRepo is the slot registry of every cellar: it creates rack
// slots from a layout, lazily creates baskets and answers position and
// occupant lookups.  Occupancy is only ever changed through
// SetOccupantTx.
type CellarSpaceRepo struct {
	db *sql.DB
}

// NewCellarSpaceRepo constructs a CellarSpaceRepo with the given DB handle.
func NewCellarSpaceRepo(db *sql.DB) *CellarSpaceRepo {
	return &CellarSpaceRepo{db: db}
}

// slotInsertBatch caps rows per INSERT so placeholders stay well below
// driver limits (5 per row).
const slotInsertBatch = 500

const spaceColumns = `id, cellar_id, kind, rack_row, rack_col, wine_id, created_at, updated_at`

func scanSpace(row interface{ Scan(...any) error }, s *model.CellarSpace) error {
	var (
		rackRow, rackCol sql.NullInt64
		wineID           sql.NullString
	)
	if err := row.Scan(&s.ID, &s.CellarID, &s.Kind, &rackRow, &rackCol, &wineID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.Row, s.Column, s.WineID = nil, nil, nil
	if rackRow.Valid {
		v := int(rackRow.Int64)
		s.Row = &v
	}
	if rackCol.Valid {
		v := int(rackCol.Int64)
		s.Column = &v
	}
	if wineID.Valid {
		v := wineID.String
		s.WineID = &v
	}
	return nil
}

func queryOneSpace(ctx context.Context, q DBTX, query string, args ...any) (*model.CellarSpace, error) {
	var s model.CellarSpace
	if err := scanSpace(q.QueryRowContext(ctx, query, args...), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateRackSlotsTx inserts one RACK slot per coordinate of layout and
// returns how many were created.  It must run in the transaction that
// created the cellar; a second call for the same cellar fails on the
// position constraint.
func (r *CellarSpaceRepo) CreateRackSlotsTx(ctx context.Context, tx *sql.Tx, cellarID string, layout model.Layout) (int, error) {
	positions := layout.Expand()
	for start := 0; start < len(positions); start += slotInsertBatch {
		end := min(start+slotInsertBatch, len(positions))
		chunk := positions[start:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO cellar_spaces (id, cellar_id, kind, rack_row, rack_col, wine_id) VALUES `)
		args := make([]interface{}, 0, len(chunk)*5)
		for i, p := range chunk {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?, ?, ?, NULL)")
			args = append(args, uuid.NewString(), cellarID, int(model.SpaceRack), p.Row, p.Column)
		}
		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return start, err
		}
	}
	return len(positions), nil
}

// FindByPositionTx returns the rack slot at (row, column), or nil when
// the coordinate lies outside the cellar's layout.
func (r *CellarSpaceRepo) FindByPositionTx(ctx context.Context, tx *sql.Tx, cellarID string, row, column int) (*model.CellarSpace, error) {
	return queryOneSpace(ctx, tx,
		`SELECT `+spaceColumns+` FROM cellar_spaces
		 WHERE cellar_id = ? AND kind = ? AND rack_row = ? AND rack_col = ?`,
		cellarID, int(model.SpaceRack), row, column)
}

// FindOrCreateEmptyBasketTx returns an unoccupied basket of the cellar,
// creating one when none is empty.  It returns nil for cellars without
// basket capability.
func (r *CellarSpaceRepo) FindOrCreateEmptyBasketTx(ctx context.Context, tx *sql.Tx, cellar *model.Cellar) (*model.CellarSpace, error) {
	if cellar == nil || !cellar.HasBasket {
		return nil, nil
	}
	s, err := queryOneSpace(ctx, tx,
		`SELECT `+spaceColumns+` FROM cellar_spaces
		 WHERE cellar_id = ? AND kind = ? AND wine_id IS NULL
		 ORDER BY created_at, id LIMIT 1`,
		cellar.ID, int(model.SpaceBasket))
	if err != nil || s != nil {
		return s, err
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cellar_spaces (id, cellar_id, kind, rack_row, rack_col, wine_id) VALUES (?, ?, ?, NULL, NULL, NULL)`,
		id, cellar.ID, int(model.SpaceBasket)); err != nil {
		return nil, err
	}
	return queryOneSpace(ctx, tx, `SELECT `+spaceColumns+` FROM cellar_spaces WHERE id = ?`, id)
}

// FindOccupantSlotTx returns the slot currently holding wineID, or nil
// when the wine is outside every cellar.
func (r *CellarSpaceRepo) FindOccupantSlotTx(ctx context.Context, tx *sql.Tx, wineID string) (*model.CellarSpace, error) {
	return queryOneSpace(ctx, tx, `SELECT `+spaceColumns+` FROM cellar_spaces WHERE wine_id = ?`, wineID)
}

// SetOccupantTx writes the slot's occupant (nil vacates) provided the
// slot still holds expected (nil meaning empty).  A lost race shows up
// as zero rows affected or a unique violation on wine_id, both reported
// as ErrConflict.
func (r *CellarSpaceRepo) SetOccupantTx(ctx context.Context, tx *sql.Tx, spaceID string, expected, wineID *string) error {
	var (
		res sql.Result
		err error
	)
	if expected == nil {
		res, err = tx.ExecContext(ctx,
			`UPDATE cellar_spaces SET wine_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND wine_id IS NULL`,
			nullable(wineID), spaceID)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE cellar_spaces SET wine_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND wine_id = ?`,
			nullable(wineID), spaceID, *expected)
	}
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrConflict
	}
	return nil
}

// VacateWineTx clears whichever slot holds wineID.  It is not an error
// for the wine to be outside.
func (r *CellarSpaceRepo) VacateWineTx(ctx context.Context, tx *sql.Tx, wineID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE cellar_spaces SET wine_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE wine_id = ?`, wineID)
	return err
}

// ListByCellar returns every slot of a cellar: racks by row and column,
// then baskets in creation order.
func (r *CellarSpaceRepo) ListByCellar(ctx context.Context, cellarID string) ([]model.CellarSpace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+spaceColumns+` FROM cellar_spaces
		 WHERE cellar_id = ?
		 ORDER BY kind, rack_row, rack_col, created_at, id`, cellarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CellarSpace{}
	for rows.Next() {
		var s model.CellarSpace
		if err := scanSpace(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByCellarTx removes all slots of a cellar.  Wines that were in
// them become outside.
func (r *CellarSpaceRepo) DeleteByCellarTx(ctx context.Context, tx *sql.Tx, cellarID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cellar_spaces WHERE cellar_id = ?`, cellarID)
	return err
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
