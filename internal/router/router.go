// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/canchaya/canchas-api/internal/config"
	"github.com/canchaya/canchas-api/internal/handler"
	"github.com/canchaya/canchas-api/internal/middleware"
)

// Deps is everything RegisterRoutes needs.  Redis and Metrics may be nil.
type Deps struct {
	Cfg     config.Config
	Redis   *redis.Client
	DB      handler.Pinger
	Metrics http.Handler

	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Venues  *handler.VenueHandler
	Tariffs *handler.TariffHandler
}

// RegisterRoutes mounts the whole API.  The rate limiter is installed by
// the caller with e.Use so that it also covers unknown routes.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	registerAuth(e, d)
	registerCatalog(e, d)
	registerVenues(e, d)
}

// registerAuth: registration and login are open, /v1/me needs a token.
func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	g.POST("/register/athlete", d.Auth.RegisterAthlete)
	g.POST("/register/club", d.Auth.RegisterClub)
	g.POST("/login", d.Auth.Login)

	e.GET("/v1/me", d.Auth.Me, middleware.JWTAuth(d.Cfg.JWT.Secret))
}

// registerCatalog mounts the master data.  It never changes through the
// API, so every route is cacheable.
func registerCatalog(e *echo.Echo, d Deps) {
	g := e.Group("/v1", middleware.NewRedisCache(d.Cfg.Cache, d.Redis))
	g.GET("/departments", d.Catalog.ListDepartments)
	g.GET("/departments/:id", d.Catalog.GetDepartment)
	g.GET("/departments/:id/cities", d.Catalog.DepartmentCities)
	g.GET("/cities", d.Catalog.ListCities)
	g.GET("/cities/:id", d.Catalog.GetCity)
	g.GET("/sports", d.Catalog.ListSports)
	g.GET("/sports/:id", d.Catalog.GetSport)
}
