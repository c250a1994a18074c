package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canchaya/canchas-api/internal/actor"
	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/queue"
)

const entityVenue = "venue"

// VenueService is the venue registry.  Every mutation goes through the
// ownership guard in package actor before it touches storage.
type VenueService struct {
	venues  VenueStore
	tariffs TariffStore
	obs     Observers
	tracer  trace.Tracer
}

func NewVenueService(venues VenueStore, tariffs TariffStore, obs Observers) *VenueService {
	return &VenueService{
		venues:  venues,
		tariffs: tariffs,
		obs:     obs.withDefaults(),
		tracer:  otel.Tracer("canchas/venues"),
	}
}

// Create registers a venue owned by club.  The owner always comes from the
// actor and never from the input.
func (s *VenueService) Create(ctx context.Context, club actor.Club, in model.VenueInput) (v *model.Venue, err error) {
	ctx, span := s.tracer.Start(ctx, "venues.create", trace.WithAttributes(attribute.Int64("club.id", int64(club.ClubID))))
	defer func() { s.obs.mutation(entityVenue, "create", err); endSpan(span, err) }()

	if _, err = actor.RequireClub(club); err != nil {
		return nil, err
	}
	v, err = in.Build(club.ClubID)
	if err != nil {
		return nil, err
	}
	taken, err := s.venues.VenueNameTaken(ctx, club.ClubID, v.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.DuplicateVenueName()
	}
	if err = s.venues.CreateVenue(ctx, v); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("venue.id", int64(v.ID)))
	logging.Info(logging.FromContext(ctx, s.obs.Logger), "venue created",
		logging.FieldVenueID, v.ID, logging.FieldUserID, club.UserID)
	s.obs.publish(ctx, venueEvent(queue.VenueCreated, club, v))
	return v, nil
}

// List returns the venues visible to a that match f.  A club only ever sees
// its own venues, active or not; everyone else sees active venues of every
// club.
func (s *VenueService) List(ctx context.Context, a actor.Actor, f model.VenueFilter) ([]model.Venue, error) {
	ctx, span := s.tracer.Start(ctx, "venues.list", trace.WithAttributes(attribute.String("actor.kind", actor.Kind(a))))
	f.Scope = actor.Scope(a)
	vs, err := s.venues.ListVenues(ctx, f)
	if err == nil {
		span.SetAttributes(attribute.Int("venues.count", len(vs)))
	}
	endSpan(span, err)
	return vs, err
}

// Get returns a venue with its club contact and weekly schedule.  An
// inactive venue is reported as missing to anyone but its owner.
func (s *VenueService) Get(ctx context.Context, a actor.Actor, id uint64) (d *model.VenueDetail, err error) {
	ctx, span := s.tracer.Start(ctx, "venues.get", trace.WithAttributes(attribute.Int64("venue.id", int64(id))))
	defer func() { endSpan(span, err) }()

	v, err := s.visible(ctx, a, id)
	if err != nil {
		return nil, err
	}
	d = &model.VenueDetail{Venue: *v}
	if d.Club, err = s.venues.ClubContact(ctx, v.ClubID); err != nil {
		return nil, err
	}
	if d.Tariffs, err = s.tariffs.ListVenueTariffs(ctx, v.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *VenueService) visible(ctx context.Context, a actor.Actor, id uint64) (*model.Venue, error) {
	v, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(a, *v) {
		return nil, &model.NotFoundError{Resource: "venue", ID: id}
	}
	return v, nil
}

// owned loads a venue for mutation.  A missing venue is NotFound, another
// club's venue is ErrForbidden.
func (s *VenueService) owned(ctx context.Context, a actor.Actor, id uint64) (*model.Venue, error) {
	v, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Owns(a, v.ClubID); err != nil {
		return nil, err
	}
	return v, nil
}

// Update applies a partial update.  Unset fields keep their value; the
// merged venue is validated as a whole.
func (s *VenueService) Update(ctx context.Context, a actor.Actor, id uint64, p model.VenuePatch) (v *model.Venue, err error) {
	ctx, span := s.tracer.Start(ctx, "venues.update", trace.WithAttributes(attribute.Int64("venue.id", int64(id))))
	defer func() { s.obs.mutation(entityVenue, "update", err); endSpan(span, err) }()

	cur, err := s.owned(ctx, a, id)
	if err != nil {
		return nil, err
	}
	v, err = p.Apply(*cur)
	if err != nil {
		return nil, err
	}
	if !model.SameVenueName(v.Name, cur.Name) {
		taken, err := s.venues.VenueNameTaken(ctx, v.ClubID, v.Name, v.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.DuplicateVenueName()
		}
	}
	if err = s.venues.UpdateVenue(ctx, v); err != nil {
		return nil, err
	}
	s.obs.publish(ctx, venueEvent(queue.VenueUpdated, a, v))
	return v, nil
}

// Delete hard-deletes a venue together with its tariffs and returns the
// venue as it was.
func (s *VenueService) Delete(ctx context.Context, a actor.Actor, id uint64) (v *model.Venue, err error) {
	ctx, span := s.tracer.Start(ctx, "venues.delete", trace.WithAttributes(attribute.Int64("venue.id", int64(id))))
	defer func() { s.obs.mutation(entityVenue, "delete", err); endSpan(span, err) }()

	v, err = s.owned(ctx, a, id)
	if err != nil {
		return nil, err
	}
	removed, err := s.venues.DeleteVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tariffs.removed", removed))
	logging.Info(logging.FromContext(ctx, s.obs.Logger), "venue deleted",
		logging.FieldVenueID, id, logging.FieldCount, removed)
	ev := venueEvent(queue.VenueDeleted, a, v)
	ev.RemovedTariffs = removed
	s.obs.publish(ctx, ev)
	return v, nil
}
