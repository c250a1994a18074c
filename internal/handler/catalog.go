package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/service"
)

// CatalogHandler exposes the read-only master data.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// ListDepartments: GET /v1/departments?search=
func (h *CatalogHandler) ListDepartments(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Catalog.Departments(ctx, newQuery(c).text("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetDepartment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	d, err := h.Catalog.Department(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// DepartmentCities: GET /v1/departments/:id/cities?search=
func (h *CatalogHandler) DepartmentCities(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Catalog.DepartmentCities(ctx, id, newQuery(c).text("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListCities: GET /v1/cities?department_id=&search=
func (h *CatalogHandler) ListCities(c echo.Context) error {
	q := newQuery(c)
	f := model.CityFilter{DepartmentID: q.id("department_id"), Search: q.text("search")}
	if err := q.err(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Catalog.Cities(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetCity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	city, err := h.Catalog.City(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, city)
}

// ListSports: GET /v1/sports?search=
func (h *CatalogHandler) ListSports(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Catalog.Sports(ctx, newQuery(c).text("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetSport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	s, err := h.Catalog.Sport(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
