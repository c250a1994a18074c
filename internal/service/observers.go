package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/metrics"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/queue"
)

// EventPublisher is satisfied by *queue.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type nopPublisher struct{}

func (nopPublisher) PublishJSON(context.Context, string, any) error { return nil }

// Observers are the side channels of a mutation.  Every field is optional.
type Observers struct {
	Events  EventPublisher
	Metrics *metrics.Recorder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (o Observers) withDefaults() Observers {
	if o.Events == nil {
		o.Events = nopPublisher{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

const publishTimeout = 2 * time.Second

// publish sends ev after a committed mutation.  A broker failure is logged
// and never undoes the mutation.
func (o Observers) publish(ctx context.Context, ev queue.CatalogEvent) {
	ev.OccurredAt = o.Now().UTC()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := o.Events.PublishJSON(ctx, ev.Type, ev); err != nil {
		logging.Error(logging.FromContext(ctx, o.Logger), "publish catalog event failed", err,
			logging.FieldEvent, ev.Type, logging.FieldVenueID, ev.VenueID)
	}
}

func (o Observers) mutation(entity, op string, err error) {
	o.Metrics.RecordMutation(entity, op, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case model.IsValidation(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, model.ErrForbidden):
		return metrics.OutcomeForbidden
	case model.IsNotFound(err):
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}

// endSpan records a real failure on span.  Expected client errors leave
// the span status unset.
func endSpan(span trace.Span, err error) {
	if err != nil && outcomeOf(err) == metrics.OutcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func venueEvent(typ string, a actor.Actor, v *model.Venue) queue.CatalogEvent {
	return queue.CatalogEvent{
		Type:        typ,
		ActorUserID: actor.UserID(a),
		ClubID:      v.ClubID,
		VenueID:     v.ID,
		VenueName:   v.Name,
	}
}

func tariffEvent(typ string, a actor.Actor, t *model.Tariff) queue.CatalogEvent {
	day := uint8(t.DayOfWeek)
	return queue.CatalogEvent{
		Type:        typ,
		ActorUserID: actor.UserID(a),
		ClubID:      t.ClubID,
		VenueID:     t.VenueID,
		VenueName:   t.VenueName,
		TariffID:    t.ID,
		DayOfWeek:   &day,
		StartTime:   t.StartTime.String(),
		EndTime:     t.EndTime.String(),
		Price:       t.Price.String(),
	}
}
