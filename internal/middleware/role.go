package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/actor"
)

// RequireClub lets only club actors with a resolved profile through.  It
// must run after JWTAuth.
func RequireClub() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := actor.RequireClub(ActorFrom(c)); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
