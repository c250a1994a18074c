package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/actor"
)

// ActorFrom returns the actor resolved by JWTAuth or OptionalJWT.
func ActorFrom(c echo.Context) actor.Actor {
	return actor.FromContext(c.Request().Context())
}

// userID returns the authenticated user id as a string, or "anon".
func userID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
