package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/repository"
	"github.com/iliyamo/wine-cellar/internal/service"
)

// dateLayout is the wire and storage format of bought_on and drunk_on.
const dateLayout = "2006-01-02"

// WineHandler serves /v1/wines.  Catalogue reads and edits go straight
// to the repository; anything that touches occupancy goes through the
// placement service.
type WineHandler struct {
	Wines     *repository.WineRepo
	Placement *service.PlacementService
}

// NewWineHandler constructs a WineHandler with the given repository and placement service.
func NewWineHandler(wines *repository.WineRepo, placement *service.PlacementService) *WineHandler {
	if wines == nil || placement == nil {
		panic("nil dependency passed to NewWineHandler")
	}
	return &WineHandler{Wines: wines, Placement: placement}
}

// wineReq carries the descriptive fields accepted on create and update.
type wineReq struct {
	Name       string  `json:"name"`
	Producer   string  `json:"producer"`
	Country    string  `json:"country"`
	Region     string  `json:"region"`
	Vintage    *int    `json:"vintage"`
	BoughtOn   *string `json:"bought_on"`
	BoughtFrom string  `json:"bought_from"`
	Price      *int    `json:"price"`
	DrinkWhen  string  `json:"drink_when"`
	DrunkOn    *string `json:"drunk_on"`
	Note       string  `json:"note"`
}

func (r wineReq) toWine() (model.Wine, error) {
	w := model.Wine{
		Name:       strings.TrimSpace(r.Name),
		Producer:   strings.TrimSpace(r.Producer),
		Country:    strings.TrimSpace(r.Country),
		Region:     strings.TrimSpace(r.Region),
		Vintage:    r.Vintage,
		BoughtFrom: strings.TrimSpace(r.BoughtFrom),
		Price:      r.Price,
		DrinkWhen:  strings.TrimSpace(r.DrinkWhen),
		Note:       r.Note,
	}
	if w.Name == "" {
		return w, errors.New("name is required")
	}
	if w.Price != nil && *w.Price < 0 {
		return w, errors.New("price must not be negative")
	}
	var err error
	if w.BoughtOn, err = parseDate("bought_on", r.BoughtOn); err != nil {
		return w, err
	}
	if w.DrunkOn, err = parseDate("drunk_on", r.DrunkOn); err != nil {
		return w, err
	}
	return w, nil
}

func parseDate(field string, v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(*v))
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}
	s := d.Format(dateLayout)
	return &s, nil
}

// Create handles POST /v1/wines.  An optional cellar_id and position
// ("basket" or "<row>-<column>") place the wine in the same transaction;
// an occupied rack position is rejected with 409.
func (h *WineHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		wineReq
		CellarID *string `json:"cellar_id"`
		Position *string `json:"position"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	w, err := body.wineReq.toWine()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	target, err := model.ParsePosition(body.CellarID, body.Position)
	if err != nil {
		return respondError(c, "create wine", err)
	}

	view, err := h.Placement.CreateWine(c.Request().Context(), uid, &w, target)
	if err != nil {
		return respondError(c, "create wine", err)
	}
	return c.JSON(http.StatusCreated, view)
}

// List handles GET /v1/wines.
func (h *WineHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	wines, err := h.Wines.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		c.Logger().Errorf("list wines: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list wines failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"wines": wines})
}

// Get handles GET /v1/wines/:id.
func (h *WineHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	w, p, err := h.Wines.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrWineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wine not found"})
		}
		c.Logger().Errorf("get wine: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get wine failed"})
	}
	return c.JSON(http.StatusOK, model.NewWineView(*w, p))
}

// Update handles PUT /v1/wines/:id.  It replaces the descriptive fields
// only; use PUT /v1/wines/:id/space to move the wine.
func (h *WineHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body wineReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	w, err := body.toWine()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	w.ID, w.OwnerID = c.Param("id"), uid

	ctx := c.Request().Context()
	if err := h.Wines.UpdateDetails(ctx, &w); err != nil {
		if errors.Is(err, repository.ErrWineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wine not found"})
		}
		c.Logger().Errorf("update wine: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update wine failed"})
	}
	stored, p, err := h.Wines.GetByIDAndOwner(ctx, w.ID, uid)
	if err != nil {
		c.Logger().Errorf("update wine: reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update wine failed"})
	}
	return c.JSON(http.StatusOK, model.NewWineView(*stored, p))
}

// Delete handles DELETE /v1/wines/:id.
func (h *WineHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Placement.DeleteWine(c.Request().Context(), uid, c.Param("id")); err != nil {
		return respondError(c, "delete wine", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Move handles PUT /v1/wines/:id/space with {cellar_id, row, column}.
// A null cellar takes the wine out, a cellar without coordinates sends
// it to that cellar's basket, and full coordinates target one rack slot
// (swapping with any wine already there).
func (h *WineHandler) Move(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		CellarID *string `json:"cellar_id"`
		Row      *int    `json:"row"`
		Column   *int    `json:"column"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target, err := model.NewTarget(body.CellarID, body.Row, body.Column)
	if err != nil {
		return respondError(c, "move wine", err)
	}

	changes, err := h.Placement.Move(c.Request().Context(), uid, c.Param("id"), target)
	if err != nil {
		return respondError(c, "move wine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"wines": changes})
}
