package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/middleware"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/service"
)

// TariffHandler serves tariffs both nested under a venue and as a flat
// collection.
type TariffHandler struct {
	Tariffs *service.TariffService
	// Loc turns an ?at= instant into the venue's day and time of day.
	Loc *time.Location
}

func NewTariffHandler(tariffs *service.TariffService, loc *time.Location) *TariffHandler {
	if tariffs == nil {
		panic("nil tariff service passed to NewTariffHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TariffHandler{Tariffs: tariffs, Loc: loc}
}

func tariffFilter(c echo.Context) (model.TariffFilter, error) {
	q := newQuery(c)
	f := model.TariffFilter{
		VenueID:   q.id("venue_id"),
		ClubID:    q.id("club_id"),
		SportID:   q.id("sport_id"),
		DayOfWeek: q.weekday("day_of_week"),
		PriceMin:  q.money("price_min"),
		PriceMax:  q.money("price_max"),
		StartFrom: q.clock("start_from"),
		StartTo:   q.clock("start_to"),
		VenueName: q.text("venue_name"),
	}
	return f, q.err()
}

// List: GET /v1/tariffs
func (h *TariffHandler) List(c echo.Context) error {
	f, err := tariffFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	out, err := h.Tariffs.List(ctx, middleware.ActorFrom(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListForVenue: GET /v1/venues/:id/tariffs, ordered as a weekly schedule.
func (h *TariffHandler) ListForVenue(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	out, err := h.Tariffs.ListByVenue(ctx, middleware.ActorFrom(c), venueID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TariffHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	t, err := h.Tariffs.Get(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Create: POST /v1/tariffs with venue_id in the body.
func (h *TariffHandler) Create(c echo.Context) error {
	var in model.TariffInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	return h.create(c, in.VenueID, in)
}

// CreateForVenue: POST /v1/venues/:id/tariffs.  The path wins over any
// venue_id in the body.
func (h *TariffHandler) CreateForVenue(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in model.TariffInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	return h.create(c, venueID, in)
}

func (h *TariffHandler) create(c echo.Context, venueID uint64, in model.TariffInput) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	t, err := h.Tariffs.Create(ctx, middleware.ActorFrom(c), venueID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Update serves PUT and PATCH /v1/tariffs/:id.
func (h *TariffHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var p model.TariffPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	t, err := h.Tariffs.Update(ctx, middleware.ActorFrom(c), id, p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TariffHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	t, err := h.Tariffs.Delete(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tariff deleted", "tariff": t})
}

// Price: GET /v1/venues/:id/price?day=1&time=18:30 or ?at=<RFC 3339>.
func (h *TariffHandler) Price(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	q := newQuery(c)
	ctx, cancel := requestCtx(c)
	defer cancel()
	a := middleware.ActorFrom(c)

	if raw, ok := q.raw("at"); ok {
		instant, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return respondError(c, model.NewValidationError("at", "must be an RFC 3339 timestamp"))
		}
		quote, err := h.Tariffs.ResolvePriceAt(ctx, a, venueID, instant, h.Loc)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, quote)
	}

	day := q.weekday("day")
	at := q.clock("time")
	if _, ok := q.raw("day"); !ok {
		q.ve.Add("day", "this field is required")
	}
	if _, ok := q.raw("time"); !ok {
		q.ve.Add("time", "this field is required")
	}
	if err := q.err(); err != nil {
		return respondError(c, err)
	}
	quote, err := h.Tariffs.ResolvePrice(ctx, a, venueID, *day, *at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}
