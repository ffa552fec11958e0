package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellarEndpoints(t *testing.T) {
	e := newServer(t)
	c := register(t, e, "owner@example.com")

	cellar := c.createCellar([]int{5, 6, 6, 6, 6}, true)
	assert.Equal(t, []int{5, 6, 6, 6, 6}, cellar.Layout)

	rec := c.do(http.MethodGet, "/v1/cellars", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Cellars []cellarBody `json:"cellars"`
	}](t, rec)
	require.Len(t, list.Cellars, 1)

	rec = c.do(http.MethodGet, "/v1/cellars/"+cellar.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[struct {
		Spaces []struct {
			Kind string `json:"kind"`
		} `json:"spaces"`
	}](t, rec)
	require.Len(t, detail.Spaces, 29)
	assert.Equal(t, "RACK", detail.Spaces[0].Kind)

	rec = c.do(http.MethodGet, "/v1/cellars/"+cellar.ID+"/layout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shape := decode[map[string]any](t, rec)
	assert.EqualValues(t, 29, shape["capacity"])
	assert.EqualValues(t, 5, shape["rows"])

	rec = c.do(http.MethodDelete, "/v1/cellars/"+cellar.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodGet, "/v1/cellars/"+cellar.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCellarRejectsBadInput(t *testing.T) {
	e := newServer(t)
	c := register(t, e, "owner@example.com")

	rec := c.do(http.MethodPost, "/v1/cellars", map[string]any{"name": "x", "layout": []int{3, -1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPost, "/v1/cellars", map[string]any{"name": "", "layout": []int{3}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodPost, "/v1/cellars", map[string]any{"name": "x", "layout": "3,3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCellarsAreIsolatedBetweenUsers(t *testing.T) {
	e := newServer(t)
	alice := register(t, e, "alice@example.com")
	bob := register(t, e, "bob@example.com")
	cellar := alice.createCellar([]int{1}, false)

	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/v1/cellars/"+cellar.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/v1/cellars/"+cellar.ID+"/layout", nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, "/v1/cellars/"+cellar.ID, nil).Code)
	assert.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/v1/cellars/"+cellar.ID, nil).Code)
}
