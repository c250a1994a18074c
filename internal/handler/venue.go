package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/middleware"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/service"
)

// VenueHandler serves the venue registry.  Reads run with an optional
// actor; writes run behind JWTAuth and RequireClub.
type VenueHandler struct {
	Venues *service.VenueService
}

func NewVenueHandler(venues *service.VenueService) *VenueHandler {
	if venues == nil {
		panic("nil venue service passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues}
}

func venueFilter(c echo.Context) (model.VenueFilter, error) {
	q := newQuery(c)
	f := model.VenueFilter{
		ClubID:       q.id("club_id"),
		SportID:      q.id("sport_id"),
		CityID:       q.id("city_id"),
		DepartmentID: q.id("department_id"),
		Name:         q.text("name"),
		ClubName:     q.text("club_name"),
		CityName:     q.text("city_name"),
		SportName:    q.text("sport_name"),
		IsRoofed:     q.bool("is_roofed"),
		IsActive:     q.bool("is_active"),
		CapacityMin:  q.int("capacity_min"),
		CapacityMax:  q.int("capacity_max"),
	}
	return f, q.err()
}

// List: GET /v1/venues
func (h *VenueHandler) List(c echo.Context) error {
	f, err := venueFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	out, err := h.Venues.List(ctx, middleware.ActorFrom(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get: GET /v1/venues/:id, with club contact and the weekly schedule.
func (h *VenueHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	d, err := h.Venues.Get(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Create: POST /v1/venues
func (h *VenueHandler) Create(c echo.Context) error {
	club, err := actor.RequireClub(middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	var in model.VenueInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	v, err := h.Venues.Create(ctx, club, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Update serves both PUT and PATCH /v1/venues/:id; only the fields present
// in the body change.
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var p model.VenuePatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	v, err := h.Venues.Update(ctx, middleware.ActorFrom(c), id, p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Delete: DELETE /v1/venues/:id.  Tariffs go with the venue.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	v, err := h.Venues.Delete(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "venue deleted", "venue": v})
}
