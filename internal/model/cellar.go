package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Cellar represents a physical wine storage owned by a user.  Its
// layout is fixed at creation: one entry per rack row, each entry the
// number of columns in that row.  A cellar may additionally offer an
// overflow basket area.  This struct corresponds to a row in the
// `cellars` table.
//
// Fields:
//  ID        – primary key identifier (UUID string).
//  OwnerID   – user ID of the cellar owner.
//  Name      – display name.
//  Layout    – per-row column capacity; immutable after creation.
//  HasBasket – whether basket slots may be created for this cellar.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Cellar struct {
	ID        string `json:"id"`         // cellars.id
	OwnerID   string `json:"-"`          // cellars.owner_id
	Name      string `json:"name"`       // cellars.name
	Layout    Layout `json:"layout"`     // cellars.layout (JSON array)
	HasBasket bool   `json:"has_basket"` // cellars.has_basket
	CreatedAt string `json:"created_at"` // cellars.created_at
	UpdatedAt string `json:"updated_at"` // cellars.updated_at
}

// Position is a rack coordinate.  Both values are 1-based.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// String renders the position the way clients submit it ("2-3").
func (p Position) String() string { return fmt.Sprintf("%d-%d", p.Row, p.Column) }

// Layout is the shape of a cellar's rack: Layout[i] is the column
// capacity of row i+1.
type Layout []int

// ErrInvalidLayout is returned by Validate for negative capacities or
// layouts outside the supported bounds.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout bounds accepted by Validate.
const (
	MaxLayoutRows    = 100
	MaxLayoutColumns = 100
)

// Expand returns every rack coordinate implied by the layout, row by
// row, columns ascending.  A zero capacity contributes no coordinates.
// Negative capacities are skipped; callers are expected to Validate
// first.
func (l Layout) Expand() []Position {
	out := make([]Position, 0, l.Capacity())
	for i, capacity := range l {
		for col := 1; col <= capacity; col++ {
			out = append(out, Position{Row: i + 1, Column: col})
		}
	}
	return out
}

// Capacity is the total number of rack slots, the sum of all rows.
func (l Layout) Capacity() int {
	n := 0
	for _, c := range l {
		if c > 0 {
			n += c
		}
	}
	return n
}

// Validate rejects negative capacities and layouts beyond the
// supported bounds.  An empty layout is valid (a basket-only cellar).
func (l Layout) Validate() error {
	if len(l) > MaxLayoutRows {
		return fmt.Errorf("%w: at most %d rows", ErrInvalidLayout, MaxLayoutRows)
	}
	for i, c := range l {
		if c < 0 {
			return fmt.Errorf("%w: row %d has negative capacity", ErrInvalidLayout, i+1)
		}
		if c > MaxLayoutColumns {
			return fmt.Errorf("%w: row %d exceeds %d columns", ErrInvalidLayout, i+1, MaxLayoutColumns)
		}
	}
	return nil
}

// Value stores the layout as a JSON array.
func (l Layout) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON array column written by Value.
func (l *Layout) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = Layout{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("layout: unsupported column type %T", src)
	}
	var out []int
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	*l = out
	return nil
}

// CellarDetail is a cellar together with all of its slots.
type CellarDetail struct {
	Cellar
	Spaces []CellarSpace `json:"spaces"`
}

// CellarLayout is the immutable shape of a cellar.
type CellarLayout struct {
	ID        string `json:"id"`
	Layout    Layout `json:"layout"`
	Rows      int    `json:"rows"`
	Capacity  int    `json:"capacity"`
	HasBasket bool   `json:"has_basket"`
}

// Shape returns the cellar's layout view.
func (c *Cellar) Shape() CellarLayout {
	l := c.Layout
	if l == nil {
		l = Layout{}
	}
	return CellarLayout{ID: c.ID, Layout: l, Rows: len(l), Capacity: l.Capacity(), HasBasket: c.HasBasket}
}
