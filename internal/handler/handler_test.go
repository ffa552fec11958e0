package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/wine-cellar/internal/config"
	"github.com/iliyamo/wine-cellar/internal/database"
	"github.com/iliyamo/wine-cellar/internal/handler"
	"github.com/iliyamo/wine-cellar/internal/repository"
	"github.com/iliyamo/wine-cellar/internal/router"
	"github.com/iliyamo/wine-cellar/internal/service"
)

const testSecret = "test-secret"

// newServer wires the full route table against a private SQLite file.
// Redis and the broker are left out, so limiter and cache pass through.
func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cellar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 1, BcryptCost: bcrypt.MinCost}
	cellarRepo := repository.NewCellarRepo(db)
	spaceRepo := repository.NewCellarSpaceRepo(db)
	wineRepo := repository.NewWineRepo(db)

	e := echo.New()
	router.RegisterRoutes(e, router.Deps{
		JWTSecret: testSecret,
		Health:    handler.Health(db),
		Auth:      handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Cellars:   handler.NewCellarHandler(service.NewCellarService(db, cellarRepo, spaceRepo), nil),
		Wines:     handler.NewWineHandler(wineRepo, service.NewPlacementService(db, cellarRepo, spaceRepo, wineRepo, nil)),
	})
	return e
}

type client struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type authBody struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

// register signs a user up and returns an authenticated client.
func register(t *testing.T, e *echo.Echo, email string) *client {
	t.Helper()
	anon := &client{t: t, e: e}
	rec := anon.do(http.MethodPost, "/v1/auth/register", map[string]string{"email": email, "password": "long-enough"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return &client{t: t, e: e, token: decode[authBody](t, rec).Access.Token}
}

type cellarBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Layout    []int  `json:"layout"`
	HasBasket bool   `json:"has_basket"`
}

type wineBody struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	CellarID *string `json:"cellar_id"`
	Position *string `json:"position"`
}

type changeBody struct {
	ID       string  `json:"id"`
	CellarID *string `json:"cellar_id"`
	Row      *int    `json:"row"`
	Column   *int    `json:"column"`
}

func (c *client) createCellar(layout []int, hasBasket bool) cellarBody {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/v1/cellars", map[string]any{"name": "Cave", "layout": layout, "has_basket": hasBasket})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[cellarBody](c.t, rec)
}

func (c *client) createWine(body map[string]any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, "/v1/wines", body)
}
