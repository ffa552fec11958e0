package repository // repository defines data access for cellars

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/wine-cellar/internal/model"
)

// ErrCellarNotFound is returned when a cellar does not exist or belongs
// to another user.
var ErrCellarNotFound = errors.New("cellar not found")

// CellarRepo provides methods to work with cellars in the database.
type CellarRepo struct {
	db *sql.DB
}

// NewCellarRepo constructs a CellarRepo with the given DB handle.
func NewCellarRepo(db *sql.DB) *CellarRepo {
	return &CellarRepo{db: db}
}

const cellarColumns = `id, owner_id, name, layout, has_basket, created_at, updated_at`

func scanCellar(row interface{ Scan(...any) error }, c *model.Cellar) error {
	return row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Layout, &c.HasBasket, &c.CreatedAt, &c.UpdatedAt)
}

// CreateTx inserts a cellar inside tx.  A missing ID is generated.  The
// timestamps are read back so the returned struct matches the row.
func (r *CellarRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Cellar) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Layout == nil {
		c.Layout = model.Layout{}
	}
	const q = `INSERT INTO cellars (id, owner_id, name, layout, has_basket) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, c.ID, c.OwnerID, c.Name, c.Layout, c.HasBasket); err != nil {
		return err
	}
	return tx.QueryRowContext(ctx, `SELECT created_at, updated_at FROM cellars WHERE id = ?`, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByIDAndOwner retrieves a cellar while enforcing ownership.
func (r *CellarRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Cellar, error) {
	return r.getByIDAndOwner(ctx, r.db, id, ownerID)
}

// GetByIDAndOwnerTx is GetByIDAndOwner inside tx.
func (r *CellarRepo) GetByIDAndOwnerTx(ctx context.Context, tx *sql.Tx, id, ownerID string) (*model.Cellar, error) {
	return r.getByIDAndOwner(ctx, tx, id, ownerID)
}

func (r *CellarRepo) getByIDAndOwner(ctx context.Context, q DBTX, id, ownerID string) (*model.Cellar, error) {
	var c model.Cellar
	err := scanCellar(q.QueryRowContext(ctx,
		`SELECT `+cellarColumns+` FROM cellars WHERE id = ? AND owner_id = ?`, id, ownerID), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCellarNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns the user's cellars, oldest first.
func (r *CellarRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Cellar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cellarColumns+` FROM cellars WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Cellar{}
	for rows.Next() {
		var c model.Cellar
		if err := scanCellar(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTx removes a cellar owned by ownerID.  ErrCellarNotFound is
// returned when nothing was deleted.
func (r *CellarRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id, ownerID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM cellars WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCellarNotFound
	}
	return nil
}
