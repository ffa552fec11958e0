package middleware

// identity.go holds the context key written by JWTAuth and the helpers
// that read it back.  Rate limiting and caching key on the same value,
// falling back to "guest" for anonymous requests.

import "github.com/labstack/echo/v4"

const userIDKey = "user_id"

// CurrentUserID returns the authenticated user's ID, or "" when the
// request did not pass through JWTAuth.
func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get(userIDKey).(string); ok {
		return v
	}
	return ""
}

// userID is CurrentUserID with a "guest" placeholder for key building.
func userID(c echo.Context) string {
	if id := CurrentUserID(c); id != "" {
		return id
	}
	return "guest"
}
