package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldEnv        = "env"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldUserID     = "user_id"
	FieldActor      = "actor"
	FieldVenueID    = "venue_id"
	FieldTariffID   = "tariff_id"
	FieldEvent      = "event"
	FieldCount      = "count"
)

// WithCommon appends service/env fields when provided.
func WithCommon(attrs []slog.Attr, service, env string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if env != "" {
		attrs = append(attrs, slog.String(FieldEnv, env))
	}
	return attrs
}
