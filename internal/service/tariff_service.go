package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/metrics"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/queue"
)

const entityTariff = "tariff"

// TariffService is the tariff table.  A tariff is owned transitively through
// its venue: only the venue's club may create, change or delete it.
type TariffService struct {
	venues  VenueStore
	tariffs TariffStore
	obs     Observers
	tracer  trace.Tracer
}

func NewTariffService(venues VenueStore, tariffs TariffStore, obs Observers) *TariffService {
	return &TariffService{
		venues:  venues,
		tariffs: tariffs,
		obs:     obs.withDefaults(),
		tracer:  otel.Tracer("canchas/tariffs"),
	}
}

// Create adds a tariff to venueID.  The venue must exist (NotFound) and
// belong to a (ErrForbidden); the interval is validated before anything is
// written.
func (s *TariffService) Create(ctx context.Context, a actor.Actor, venueID uint64, in model.TariffInput) (t *model.Tariff, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.create", trace.WithAttributes(attribute.Int64("venue.id", int64(venueID))))
	defer func() { s.obs.mutation(entityTariff, "create", err); endSpan(span, err) }()

	if venueID == 0 {
		return nil, model.NewValidationError("venue_id", "this field is required")
	}
	v, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if err = actor.Owns(a, v.ClubID); err != nil {
		return nil, err
	}
	t, err = in.Build(venueID)
	if err != nil {
		return nil, err
	}
	if err = s.tariffs.CreateTariff(ctx, t); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("tariff.id", int64(t.ID)))
	s.obs.publish(ctx, tariffEvent(queue.TariffCreated, a, t))
	return t, nil
}

// ListByVenue returns the weekly schedule of a venue visible to a, ordered
// by day then start time.
func (s *TariffService) ListByVenue(ctx context.Context, a actor.Actor, venueID uint64) (ts []model.Tariff, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.list_by_venue", trace.WithAttributes(attribute.Int64("venue.id", int64(venueID))))
	defer func() { endSpan(span, err) }()

	v, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(a, *v) {
		return nil, &model.NotFoundError{Resource: "venue", ID: venueID}
	}
	return s.tariffs.ListVenueTariffs(ctx, venueID)
}

// List returns tariffs across venues.  Visibility follows the venue
// listing: a club sees tariffs of its own venues, others see tariffs of
// active venues.
func (s *TariffService) List(ctx context.Context, a actor.Actor, f model.TariffFilter) (ts []model.Tariff, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.list")
	defer func() { endSpan(span, err) }()

	f.Scope = actor.Scope(a)
	return s.tariffs.ListTariffs(ctx, f)
}

// Get returns one tariff.  Tariffs of an inactive venue are hidden from
// everyone but the owner.
func (s *TariffService) Get(ctx context.Context, a actor.Actor, id uint64) (*model.Tariff, error) {
	t, err := s.tariffs.GetTariff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.VenueActive && actor.Owns(a, t.ClubID) != nil {
		return nil, &model.NotFoundError{Resource: "tariff", ID: id}
	}
	return t, nil
}

func (s *TariffService) owned(ctx context.Context, a actor.Actor, id uint64) (*model.Tariff, error) {
	t, err := s.tariffs.GetTariff(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Owns(a, t.ClubID); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies a partial update and re-validates the merged interval.
func (s *TariffService) Update(ctx context.Context, a actor.Actor, id uint64, p model.TariffPatch) (t *model.Tariff, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.update", trace.WithAttributes(attribute.Int64("tariff.id", int64(id))))
	defer func() { s.obs.mutation(entityTariff, "update", err); endSpan(span, err) }()

	cur, err := s.owned(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if t, err = p.Apply(*cur); err != nil {
		return nil, err
	}
	if err = s.tariffs.UpdateTariff(ctx, t); err != nil {
		return nil, err
	}
	s.obs.publish(ctx, tariffEvent(queue.TariffUpdated, a, t))
	return t, nil
}

// Delete removes one tariff and returns it as it was.
func (s *TariffService) Delete(ctx context.Context, a actor.Actor, id uint64) (t *model.Tariff, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.delete", trace.WithAttributes(attribute.Int64("tariff.id", int64(id))))
	defer func() { s.obs.mutation(entityTariff, "delete", err); endSpan(span, err) }()

	if t, err = s.owned(ctx, a, id); err != nil {
		return nil, err
	}
	if err = s.tariffs.DeleteTariff(ctx, id); err != nil {
		return nil, err
	}
	s.obs.publish(ctx, tariffEvent(queue.TariffDeleted, a, t))
	return t, nil
}

// ResolvePrice answers what venueID costs on day at time at.  When
// tariffs overlap, the earliest created one wins and the quote is flagged
// as ambiguous.  No covering tariff is NotFound.
func (s *TariffService) ResolvePrice(ctx context.Context, a actor.Actor, venueID uint64, day model.Weekday, at model.ClockTime) (q model.PriceQuote, err error) {
	ctx, span := s.tracer.Start(ctx, "tariffs.resolve_price", trace.WithAttributes(
		attribute.Int64("venue.id", int64(venueID)),
		attribute.Int("day_of_week", int(day)),
		attribute.String("time", at.String()),
	))
	defer func() { endSpan(span, err) }()

	if !day.Valid() {
		return q, model.NewValidationError("day", "must be between 0 (Sunday) and 6 (Saturday)")
	}
	ts, err := s.ListByVenue(ctx, a, venueID)
	if err != nil {
		return q, err
	}
	q, ok := model.ResolvePrice(ts, day, at)
	switch {
	case !ok:
		s.obs.Metrics.RecordPriceLookup(metrics.OutcomeNoMatch)
		return q, &model.NotFoundError{Resource: "tariff"}
	case q.Ambiguous:
		s.obs.Metrics.RecordPriceLookup(metrics.OutcomeAmbiguous)
	default:
		s.obs.Metrics.RecordPriceLookup(metrics.OutcomeMatched)
	}
	span.SetAttributes(attribute.Int64("tariff.id", int64(q.Tariff.ID)), attribute.Int("candidates", q.Candidates))
	return q, nil
}

// ResolvePriceAt is ResolvePrice for an instant, read in loc.
func (s *TariffService) ResolvePriceAt(ctx context.Context, a actor.Actor, venueID uint64, instant time.Time, loc *time.Location) (model.PriceQuote, error) {
	local := instant.In(loc)
	return s.ResolvePrice(ctx, a, venueID, model.WeekdayOf(local), model.ClockOf(local))
}
