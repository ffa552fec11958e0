package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/service"
)

// CacheInvalidator drops a cached GET response for a user and path.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID, path string) error
}

// CellarHandler serves /v1/cellars.
type CellarHandler struct {
	Cellars *service.CellarService
	Cache   CacheInvalidator // optional
}

// NewCellarHandler constructs a CellarHandler with the given service and optional cache.
func NewCellarHandler(cellars *service.CellarService, cache CacheInvalidator) *CellarHandler {
	if cellars == nil {
		panic("nil service passed to NewCellarHandler")
	}
	return &CellarHandler{Cellars: cellars, Cache: cache}
}

// layoutPath is the cached route for a cellar's shape.
func layoutPath(id string) string { return "/v1/cellars/" + id + "/layout" }

// Create handles POST /v1/cellars.
func (h *CellarHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name      string       `json:"name"`
		Layout    model.Layout `json:"layout"`
		HasBasket bool         `json:"has_basket"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cellar, err := h.Cellars.Create(ctx, uid, body.Name, body.Layout, body.HasBasket)
	if err != nil {
		return respondError(c, "create cellar", err)
	}
	return c.JSON(http.StatusCreated, cellar)
}

// List handles GET /v1/cellars.
func (h *CellarHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cellars, err := h.Cellars.List(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, "list cellars", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cellars": cellars})
}

// Get handles GET /v1/cellars/:id and includes every slot.
func (h *CellarHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	detail, err := h.Cellars.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return respondError(c, "get cellar", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Layout handles GET /v1/cellars/:id/layout.
func (h *CellarHandler) Layout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shape, err := h.Cellars.Layout(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return respondError(c, "get layout", err)
	}
	return c.JSON(http.StatusOK, shape)
}

// Delete handles DELETE /v1/cellars/:id.
func (h *CellarHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := h.Cellars.Delete(ctx, uid, id); err != nil {
		return respondError(c, "delete cellar", err)
	}
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, uid, layoutPath(id)); err != nil {
			c.Logger().Warnf("delete cellar: invalidate layout cache: %v", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
