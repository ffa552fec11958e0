package repository // repository defines data access for wines

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/wine-cellar/internal/model"
)

// ErrWineNotFound is returned when a wine does not exist or belongs to
// another user.
var ErrWineNotFound = errors.New("wine not found")

// WineRepo stores wine catalogue entries.  It never writes placement:
// a wine's position is read back from cellar_spaces by reverse lookup.
type WineRepo struct {
	db *sql.DB
}

// NewWineRepo constructs a WineRepo with the given DB handle.
func NewWineRepo(db *sql.DB) *WineRepo {
	return &WineRepo{db: db}
}

const wineSelect = `SELECT w.id, w.owner_id, w.name, w.producer, w.country, w.region, w.vintage,
	   w.bought_on, w.bought_from, w.price, w.drink_when, w.drunk_on, w.note,
	   w.created_at, w.updated_at,
	   s.cellar_id, s.kind, s.rack_row, s.rack_col
  FROM wines w
  LEFT JOIN cellar_spaces s ON s.wine_id = w.id`

func scanWine(row interface{ Scan(...any) error }) (model.Wine, *model.Placement, error) {
	var (
		w                      model.Wine
		vintage, price         sql.NullInt64
		boughtOn, drunkOn      sql.NullString
		cellarID               sql.NullString
		kind, rackRow, rackCol sql.NullInt64
	)
	err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Producer, &w.Country, &w.Region, &vintage,
		&boughtOn, &w.BoughtFrom, &price, &w.DrinkWhen, &drunkOn, &w.Note,
		&w.CreatedAt, &w.UpdatedAt,
		&cellarID, &kind, &rackRow, &rackCol)
	if err != nil {
		return w, nil, err
	}
	w.Vintage = intOrNil(vintage)
	w.Price = intOrNil(price)
	w.BoughtOn = stringOrNil(boughtOn)
	w.DrunkOn = stringOrNil(drunkOn)

	if !cellarID.Valid {
		return w, nil, nil
	}
	return w, &model.Placement{
		CellarID: cellarID.String,
		Kind:     model.SpaceKind(kind.Int64),
		Row:      intOrNil(rackRow),
		Column:   intOrNil(rackCol),
	}, nil
}

// CreateTx inserts a wine inside tx.  A missing ID is generated and the
// timestamps are read back.
func (r *WineRepo) CreateTx(ctx context.Context, tx *sql.Tx, w *model.Wine) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	const q = `INSERT INTO wines (id, owner_id, name, producer, country, region, vintage,
				   bought_on, bought_from, price, drink_when, drunk_on, note)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, w.ID, w.OwnerID, w.Name, w.Producer, w.Country, w.Region,
		intArg(w.Vintage), nullable(w.BoughtOn), w.BoughtFrom, intArg(w.Price), w.DrinkWhen,
		nullable(w.DrunkOn), w.Note); err != nil {
		return err
	}
	return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM wines WHERE id = ?`, w.ID).
		Scan(&w.CreatedAt, &w.UpdatedAt)
}

// GetByIDAndOwner returns a wine with its derived placement (nil when
// outside).
func (r *WineRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Wine, *model.Placement, error) {
	return r.getByIDAndOwner(ctx, r.db, id, ownerID)
}

// GetByIDAndOwnerTx is GetByIDAndOwner inside tx.
func (r *WineRepo) GetByIDAndOwnerTx(ctx context.Context, tx *sql.Tx, id, ownerID string) (*model.Wine, *model.Placement, error) {
	return r.getByIDAndOwner(ctx, tx, id, ownerID)
}

func (r *WineRepo) getByIDAndOwner(ctx context.Context, q DBTX, id, ownerID string) (*model.Wine, *model.Placement, error) {
	w, p, err := scanWine(q.QueryRowContext(ctx, wineSelect+` WHERE w.id = ? AND w.owner_id = ?`, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrWineNotFound
		}
		return nil, nil, err
	}
	return &w, p, nil
}

// ListByOwner returns the user's wines with their placements, oldest
// first.
func (r *WineRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.WineView, error) {
	rows, err := r.db.QueryContext(ctx, wineSelect+` WHERE w.owner_id = ? ORDER BY w.created_at, w.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.WineView{}
	for rows.Next() {
		w, p, err := scanWine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, model.NewWineView(w, p))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDetails overwrites the descriptive columns of a wine.  Placement
// is not touched.
func (r *WineRepo) UpdateDetails(ctx context.Context, w *model.Wine) error {
	const q = `UPDATE wines
				  SET name = ?, producer = ?, country = ?, region = ?, vintage = ?, bought_on = ?,
					  bought_from = ?, price = ?, drink_when = ?, drunk_on = ?, note = ?,
					  updated_at = CURRENT_TIMESTAMP
				WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, w.Name, w.Producer, w.Country, w.Region, intArg(w.Vintage),
		nullable(w.BoughtOn), w.BoughtFrom, intArg(w.Price), w.DrinkWhen, nullable(w.DrunkOn), w.Note,
		w.ID, w.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for an unchanged row; confirm it really is gone.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM wines WHERE id = ? AND owner_id = ?`, w.ID, w.OwnerID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWineNotFound
		}
		return err
	}
	return nil
}

// DeleteByIDAndOwnerTx removes a wine owned by ownerID.
func (r *WineRepo) DeleteByIDAndOwnerTx(ctx context.Context, tx *sql.Tx, id, ownerID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM wines WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWineNotFound
	}
	return nil
}

func intOrNil(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func stringOrNil(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intArg(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
