package model

// SpaceKind distinguishes positional rack cells from positionless
// baskets.  The numeric values are what the `kind` column stores.
type SpaceKind int

const (
	SpaceRack   SpaceKind = 1
	SpaceBasket SpaceKind = 2
)

// String returns the upper-case kind name used in API responses.
func (k SpaceKind) String() string {
	switch k {
	case SpaceRack:
		return "RACK"
	case SpaceBasket:
		return "BASKET"
	}
	return "UNKNOWN"
}

// MarshalText lets SpaceKind render as its name in JSON.
func (k SpaceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// CellarSpace is a single storage slot of a cellar.  Rack slots carry a
// row and column; basket slots carry neither.  The slot owns the
// occupancy link: WineID points at the wine stored in it, if any.
//
// Fields:
//  ID        – primary key identifier.
//  CellarID  – owning cellar.
//  Kind      – RACK or BASKET.
//  Row       – rack row (nil for baskets).
//  Column    – rack column (nil for baskets).
//  WineID    – occupant wine (nil when empty).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CellarSpace struct {
	ID        string    `json:"id"`         // cellar_spaces.id
	CellarID  string    `json:"cellar_id"`  // cellar_spaces.cellar_id
	Kind      SpaceKind `json:"kind"`       // cellar_spaces.kind
	Row       *int      `json:"row"`        // cellar_spaces.rack_row (nullable)
	Column    *int      `json:"column"`     // cellar_spaces.rack_col (nullable)
	WineID    *string   `json:"wine_id"`    // cellar_spaces.wine_id (nullable)
	CreatedAt string    `json:"created_at"` // cellar_spaces.created_at
	UpdatedAt string    `json:"updated_at"` // cellar_spaces.updated_at
}

// IsBasket reports whether the slot is a basket.
func (s *CellarSpace) IsBasket() bool { return s != nil && s.Kind == SpaceBasket }

// IsEmpty reports whether no wine occupies the slot.
func (s *CellarSpace) IsEmpty() bool { return s.WineID == nil }

// OccupiedBy reports whether the slot currently holds the given wine.
func (s *CellarSpace) OccupiedBy(wineID string) bool {
	return s.WineID != nil && *s.WineID == wineID
}
