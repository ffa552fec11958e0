package model

// Wine is a catalogued bottle owned by a user.  It carries no
// reference to the slot it sits in; its position is always derived
// from the cellar_spaces row pointing at it.  Nullable columns are
// pointers so that nil maps to SQL NULL and JSON null.
//
// Fields:
//  ID         – primary key identifier (UUID string).
//  OwnerID    – user ID of the owner.
//  Name       – label name.
//  Producer   – domaine / winery.
//  Country    – country of origin (free text).
//  Region     – region or appellation.
//  Vintage    – harvest year (nil for non-vintage).
//  BoughtOn   – purchase date as YYYY-MM-DD.
//  BoughtFrom – shop or source.
//  Price      – price paid in minor units.
//  DrinkWhen  – drinking window note.
//  DrunkOn    – date the bottle was opened as YYYY-MM-DD.
//  Note       – free-form tasting notes.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Wine struct {
	ID         string  `json:"id"`          // wines.id
	OwnerID    string  `json:"-"`           // wines.owner_id
	Name       string  `json:"name"`        // wines.name
	Producer   string  `json:"producer"`    // wines.producer
	Country    string  `json:"country"`     // wines.country
	Region     string  `json:"region"`      // wines.region
	Vintage    *int    `json:"vintage"`     // wines.vintage (nullable)
	BoughtOn   *string `json:"bought_on"`   // wines.bought_on (nullable)
	BoughtFrom string  `json:"bought_from"` // wines.bought_from
	Price      *int    `json:"price"`       // wines.price (nullable)
	DrinkWhen  string  `json:"drink_when"`  // wines.drink_when
	DrunkOn    *string `json:"drunk_on"`    // wines.drunk_on (nullable)
	Note       string  `json:"note"`        // wines.note
	CreatedAt  string  `json:"created_at"`  // wines.created_at
	UpdatedAt  string  `json:"updated_at"`  // wines.updated_at
}

// Placement is a wine's derived location.  A nil *Placement means the
// wine is outside any cellar.
type Placement struct {
	CellarID string
	Kind     SpaceKind
	Row      *int
	Column   *int
}

// PositionLabel renders the placement as "basket" or "<row>-<column>".
func (p *Placement) PositionLabel() string {
	if p.Kind == SpaceBasket || p.Row == nil || p.Column == nil {
		return "basket"
	}
	return Position{Row: *p.Row, Column: *p.Column}.String()
}

// WineView is a wine together with its derived placement, shaped for
// API responses.
type WineView struct {
	Wine
	CellarID *string `json:"cellar_id"`
	Position *string `json:"position"`
}

// NewWineView builds the response view for a wine and its placement.
func NewWineView(w Wine, p *Placement) WineView {
	v := WineView{Wine: w}
	if p != nil {
		cid := p.CellarID
		label := p.PositionLabel()
		v.CellarID = &cid
		v.Position = &label
	}
	return v
}
