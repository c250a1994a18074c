package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/service"
	"github.com/canchaya/canchas-api/internal/utils"
)

// JWTAuth requires a valid Bearer access token.  The resolved actor is
// stored in the request context and the user id under c.Get("user_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return authenticate(secret, true)
}

// OptionalJWT resolves the actor when a Bearer token is sent and falls back
// to Anonymous otherwise.  A token that is present but invalid is still
// rejected.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return authenticate(secret, false)
}

func authenticate(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" && !required {
				return next(withActor(c, actor.Anonymous{}))
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			a := service.ActorFromClaims(claims)
			if _, anon := a.(actor.Anonymous); anon {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			return next(withActor(c, a))
		}
	}
}

func withActor(c echo.Context, a actor.Actor) echo.Context {
	if id := actor.UserID(a); id != 0 {
		c.Set("user_id", strconv.FormatUint(id, 10))
	}
	c.Set("actor_kind", actor.Kind(a))
	req := c.Request()
	c.SetRequest(req.WithContext(actor.WithActor(req.Context(), a)))
	return c
}
