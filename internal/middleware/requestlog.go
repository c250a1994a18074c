package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/metrics"
)

// RequestLogger tags each request with an id, puts a request-scoped logger
// in the context and records one log line and one metric sample per
// request.
func RequestLogger(logger *slog.Logger, rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			reqLogger := logger
			if reqLogger != nil {
				reqLogger = reqLogger.With(logging.FieldRequestID, rid)
				c.SetRequest(req.WithContext(logging.WithLogger(req.Context(), reqLogger)))
			}

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			dur := time.Since(start)
			route := c.Path()
			rec.RecordHTTPRequest(req.Method, route, status, dur)

			args := []any{
				logging.FieldMethod, req.Method,
				logging.FieldPath, req.URL.Path,
				logging.FieldStatusCode, status,
				logging.FieldDurationMS, dur.Milliseconds(),
				logging.FieldUserID, userID(c),
			}
			switch {
			case status >= 500:
				logging.Error(reqLogger, "request failed", nil, args...)
			case status >= 400:
				logging.Warn(reqLogger, "request rejected", args...)
			default:
				logging.Info(reqLogger, "request", args...)
			}
			return nil
		}
	}
}
