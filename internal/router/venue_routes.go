package router

import (
	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/middleware"
)

// registerVenues mounts venues and tariffs.  Reads accept an optional
// token so a club also sees its own inactive venues; writes need a club
// token and purge the response cache once they succeed.
func registerVenues(e *echo.Echo, d Deps) {
	secret := d.Cfg.JWT.Secret

	read := e.Group("/v1",
		middleware.OptionalJWT(secret),
		middleware.NewRedisCache(d.Cfg.Cache, d.Redis),
	)
	read.GET("/venues", d.Venues.List)
	read.GET("/venues/:id", d.Venues.Get)
	read.GET("/venues/:id/tariffs", d.Tariffs.ListForVenue)
	read.GET("/venues/:id/price", d.Tariffs.Price)
	read.GET("/tariffs", d.Tariffs.List)
	read.GET("/tariffs/:id", d.Tariffs.Get)

	write := e.Group("/v1",
		middleware.JWTAuth(secret),
		middleware.RequireClub(),
		middleware.PurgeCache(d.Cfg.Cache, d.Redis),
	)
	write.POST("/venues", d.Venues.Create)
	write.PUT("/venues/:id", d.Venues.Update)
	write.PATCH("/venues/:id", d.Venues.Update)
	write.DELETE("/venues/:id", d.Venues.Delete)
	write.POST("/venues/:id/tariffs", d.Tariffs.CreateForVenue)

	write.POST("/tariffs", d.Tariffs.Create)
	write.PUT("/tariffs/:id", d.Tariffs.Update)
	write.PATCH("/tariffs/:id", d.Tariffs.Update)
	write.DELETE("/tariffs/:id", d.Tariffs.Delete)
}
