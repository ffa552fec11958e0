package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestNewTarget(t *testing.T) {
	tests := []struct {
		name    string
		cellar  *string
		row     *int
		column  *int
		want    Target
		wantErr bool
	}{
		{name: "outside", want: Outside()},
		{name: "blank cellar is outside", cellar: strp("  "), want: Outside()},
		{name: "basket", cellar: strp("c1"), want: Basket("c1")},
		{name: "rack", cellar: strp("c1"), row: intp(2), column: intp(3), want: Rack("c1", 2, 3)},
		{name: "row without cellar", row: intp(1), column: intp(1), wantErr: true},
		{name: "row only", cellar: strp("c1"), row: intp(1), wantErr: true},
		{name: "column only", cellar: strp("c1"), column: intp(1), wantErr: true},
		{name: "zero row", cellar: strp("c1"), row: intp(0), column: intp(1), wantErr: true},
		{name: "negative column", cellar: strp("c1"), row: intp(1), column: intp(-2), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTarget(tt.cellar, tt.row, tt.column)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name     string
		cellar   *string
		position *string
		want     Target
		wantErr  bool
	}{
		{name: "nothing", want: Outside()},
		{name: "cellar without position", cellar: strp("c1"), want: Outside()},
		{name: "basket", cellar: strp("c1"), position: strp("basket"), want: Basket("c1")},
		{name: "basket any case", cellar: strp("c1"), position: strp(" Basket "), want: Basket("c1")},
		{name: "rack", cellar: strp("c1"), position: strp("2-4"), want: Rack("c1", 2, 4)},
		{name: "no separator", cellar: strp("c1"), position: strp("24"), wantErr: true},
		{name: "not numeric", cellar: strp("c1"), position: strp("a-b"), wantErr: true},
		{name: "zero", cellar: strp("c1"), position: strp("0-1"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePosition(tt.cellar, tt.position)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangeJSON(t *testing.T) {
	row, col := 1, 3
	rack := &CellarSpace{CellarID: "c1", Kind: SpaceRack, Row: &row, Column: &col}
	basket := &CellarSpace{CellarID: "c1", Kind: SpaceBasket}

	cases := map[string]struct {
		change Change
		want   string
	}{
		"rack":    {ChangeAt("w1", rack), `{"id":"w1","cellar_id":"c1","row":1,"column":3}`},
		"basket":  {ChangeAt("w1", basket), `{"id":"w1","cellar_id":"c1","row":null,"column":null}`},
		"outside": {ChangeOutside("w1"), `{"id":"w1","cellar_id":null,"row":null,"column":null}`},
		"nil":     {ChangeAt("w1", nil), `{"id":"w1","cellar_id":null,"row":null,"column":null}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(tc.change)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))
		})
	}

	// The change holds copies, not pointers into the slot.
	c := ChangeAt("w1", rack)
	row = 9
	assert.Equal(t, 1, *c.Row)
}

func TestTargetKindString(t *testing.T) {
	assert.Equal(t, "outside", TargetOutside.String())
	assert.Equal(t, "basket", TargetBasket.String())
	assert.Equal(t, "rack", TargetRack.String())
	assert.Equal(t, "unknown", TargetKind(9).String())
}
