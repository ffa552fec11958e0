package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wine-cellar/internal/model"
	"github.com/iliyamo/wine-cellar/internal/service"
)

// respondError maps the service taxonomy onto HTTP.  Client errors are
// logged at warn, everything else at error with a generic message.
func respondError(c echo.Context, op string, err error) error {
	status, body := http.StatusInternalServerError, echo.Map{"error": op + " failed"}
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, model.ErrInvalidTarget), errors.Is(err, model.ErrInvalidLayout):
		status, body = http.StatusBadRequest, echo.Map{"error": err.Error()}
	case errors.Is(err, service.ErrNotFound):
		status, body = http.StatusNotFound, echo.Map{"error": err.Error()}
	case errors.Is(err, service.ErrConflict):
		status, body = http.StatusConflict, echo.Map{"error": err.Error()}
	case errors.Is(err, service.ErrStorageConflict):
		status, body = http.StatusConflict, echo.Map{"error": "concurrent change, retry the request", "retryable": true}
	}
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s: %v", op, err)
	} else {
		c.Logger().Warnf("%s: %v", op, err)
	}
	return c.JSON(status, body)
}
