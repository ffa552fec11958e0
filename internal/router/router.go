package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/wine-cellar/internal/handler"    // HTTP handlers
	"github.com/iliyamo/wine-cellar/internal/middleware" // JWT auth, rate limiting, response cache
)

// Deps is everything RegisterRoutes needs.  RateLimit and Cache may be
// no-op middleware when Redis is unavailable.
type Deps struct {
	JWTSecret string
	Health    echo.HandlerFunc
	Auth      *handler.AuthHandler
	Cellars   *handler.CellarHandler
	Wines     *handler.WineHandler
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes mounts the health check, the unauthenticated /v1/auth
// group and the JWT-protected /v1 API.
func RegisterRoutes(e *echo.Echo, d Deps) {
	rl := orPass(d.RateLimit)

	// Used by load balancers; never authenticated nor throttled.
	e.GET("/healthz", d.Health)

	// Session operations that do not require an existing access token.
	a := e.Group("/v1/auth", rl)
	a.POST("/register", d.Auth.Register)
	a.POST("/login", d.Auth.Login)
	a.POST("/refresh", d.Auth.Refresh)
	a.POST("/logout", d.Auth.Logout)

	// Everything else needs a bearer token.  The limiter runs after
	// JWTAuth so user-based key strategies see the caller.
	v1 := e.Group("/v1", middleware.JWTAuth(d.JWTSecret), rl)
	v1.GET("/me", d.Auth.Me)

	v1.POST("/cellars", d.Cellars.Create)
	v1.GET("/cellars", d.Cellars.List)
	v1.GET("/cellars/:id", d.Cellars.Get)
	// The layout never changes after creation, so it is the one cached read.
	v1.GET("/cellars/:id/layout", d.Cellars.Layout, orPass(d.Cache))
	v1.DELETE("/cellars/:id", d.Cellars.Delete)

	v1.POST("/wines", d.Wines.Create)
	v1.GET("/wines", d.Wines.List)
	v1.GET("/wines/:id", d.Wines.Get)
	v1.PUT("/wines/:id", d.Wines.Update)
	v1.DELETE("/wines/:id", d.Wines.Delete)
	v1.PUT("/wines/:id/space", d.Wines.Move)
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}
