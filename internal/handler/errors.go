package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/service"
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// respondError renders a service error.  Unknown errors become a 500 and
// are logged with the request-scoped logger; their text never reaches the
// client.
func respondError(c echo.Context, err error) error {
	var (
		ve *model.ValidationError
		nf *model.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	case errors.Is(err, context.DeadlineExceeded):
		logging.Error(logging.FromContext(c.Request().Context(), nil), "request timed out", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "timeout"})
	}
	logging.Error(logging.FromContext(c.Request().Context(), nil), "request failed", err,
		logging.FieldPath, c.Path())
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
