package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TargetKind tags where a move request sends a wine.
type TargetKind int

const (
	TargetOutside TargetKind = iota // out of every cellar
	TargetBasket                    // any empty basket of the cellar
	TargetRack                      // one specific rack coordinate
)

func (k TargetKind) String() string {
	switch k {
	case TargetOutside:
		return "outside"
	case TargetBasket:
		return "basket"
	case TargetRack:
		return "rack"
	}
	return "unknown"
}

// Target is a resolved move destination.  CellarID is empty for
// TargetOutside; Row and Column are only meaningful for TargetRack.
type Target struct {
	Kind     TargetKind
	CellarID string
	Row      int
	Column   int
}

// ErrInvalidTarget reports an inconsistent destination descriptor.
var ErrInvalidTarget = errors.New("invalid target")

// Outside is the target that takes a wine out of every cellar.
func Outside() Target { return Target{Kind: TargetOutside} }

// Basket targets the basket area of a cellar.
func Basket(cellarID string) Target { return Target{Kind: TargetBasket, CellarID: cellarID} }

// Rack targets one rack coordinate of a cellar.
func Rack(cellarID string, row, column int) Target {
	return Target{Kind: TargetRack, CellarID: cellarID, Row: row, Column: column}
}

// NewTarget classifies a raw {cellar_id, row, column} descriptor:
//
//  cellar nil                       -> outside (row and column must be nil too)
//  cellar set, row and column nil   -> basket
//  cellar set, row and column set   -> rack
//
// Every other combination is rejected with ErrInvalidTarget, as are
// rack coordinates below 1.
func NewTarget(cellarID *string, row, column *int) (Target, error) {
	if cellarID == nil || strings.TrimSpace(*cellarID) == "" {
		if row != nil || column != nil {
			return Target{}, fmt.Errorf("%w: row and column require cellar_id", ErrInvalidTarget)
		}
		return Outside(), nil
	}
	cid := strings.TrimSpace(*cellarID)
	switch {
	case row == nil && column == nil:
		return Basket(cid), nil
	case row == nil || column == nil:
		return Target{}, fmt.Errorf("%w: row and column must be given together", ErrInvalidTarget)
	case *row < 1 || *column < 1:
		return Target{}, fmt.Errorf("%w: row and column must be positive", ErrInvalidTarget)
	}
	return Rack(cid, *row, *column), nil
}

// ParsePosition decodes the creation-time position form: "basket" or
// "<row>-<column>".  A missing cellar or position means the wine starts
// outside.
func ParsePosition(cellarID, position *string) (Target, error) {
	if cellarID == nil || strings.TrimSpace(*cellarID) == "" {
		return Outside(), nil
	}
	if position == nil || strings.TrimSpace(*position) == "" {
		return Outside(), nil
	}
	cid := strings.TrimSpace(*cellarID)
	pos := strings.ToLower(strings.TrimSpace(*position))
	if pos == "basket" {
		return Basket(cid), nil
	}
	rowStr, colStr, ok := strings.Cut(pos, "-")
	if !ok {
		return Target{}, fmt.Errorf("%w: position must be \"basket\" or \"<row>-<column>\"", ErrInvalidTarget)
	}
	row, errR := strconv.Atoi(strings.TrimSpace(rowStr))
	col, errC := strconv.Atoi(strings.TrimSpace(colStr))
	if errR != nil || errC != nil {
		return Target{}, fmt.Errorf("%w: position %q is not numeric", ErrInvalidTarget, *position)
	}
	return NewTarget(&cid, &row, &col)
}

// Change is one wine's position after a placement operation.  All
// three location fields are nil when the wine ended up outside; only
// CellarID is set when it is in a basket.
type Change struct {
	WineID   string  `json:"id"`
	CellarID *string `json:"cellar_id"`
	Row      *int    `json:"row"`
	Column   *int    `json:"column"`
}

// ChangeAt describes a wine now sitting in the given slot.
func ChangeAt(wineID string, s *CellarSpace) Change {
	if s == nil {
		return ChangeOutside(wineID)
	}
	cid := s.CellarID
	c := Change{WineID: wineID, CellarID: &cid}
	if s.Kind == SpaceRack {
		c.Row = intPtr(s.Row)
		c.Column = intPtr(s.Column)
	}
	return c
}

// ChangeOutside describes a wine now outside every cellar.
func ChangeOutside(wineID string) Change { return Change{WineID: wineID} }

func intPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
