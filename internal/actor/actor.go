// Package actor models who is making a request.  An Actor is a closed set
// of variants: Anonymous, Athlete or Club.  Only a Club can own venues, and
// the functions here are the single place where ownership is decided.
package actor

import (
	"context"

	"github.com/canchaya/canchas-api/internal/model"
)

// Actor is implemented only by the variants in this package.
type Actor interface {
	isActor()
}

// Anonymous is an unauthenticated caller.
type Anonymous struct{}

// Athlete is an authenticated individual account.
type Athlete struct {
	UserID    uint64
	AthleteID uint64
}

// Club is an authenticated club account together with its club profile id.
type Club struct {
	UserID uint64
	ClubID uint64
}

func (Anonymous) isActor() {}
func (Athlete) isActor()   {}
func (Club) isActor()      {}

// UserID returns the authenticated user's id, or 0 for Anonymous.
func UserID(a Actor) uint64 {
	switch v := a.(type) {
	case Athlete:
		return v.UserID
	case Club:
		return v.UserID
	}
	return 0
}

// Kind names the variant, matching the user kinds stored in users.kind.
func Kind(a Actor) string {
	switch a.(type) {
	case Athlete:
		return string(model.KindAthlete)
	case Club:
		return string(model.KindClub)
	}
	return "anonymous"
}

// RequireClub narrows a to a Club with a resolved profile.  Anything else
// is forbidden.
func RequireClub(a Actor) (Club, error) {
	c, ok := a.(Club)
	if !ok || c.ClubID == 0 {
		return Club{}, model.ErrForbidden
	}
	return c, nil
}

// Owns is the ownership guard: it passes only when a is the club identified
// by ownerClubID.  It fails closed for every other actor.
func Owns(a Actor, ownerClubID uint64) error {
	c, err := RequireClub(a)
	if err != nil {
		return err
	}
	if ownerClubID == 0 || c.ClubID != ownerClubID {
		return model.ErrForbidden
	}
	return nil
}

// Scope returns the read visibility for a: a club sees its own venues,
// everyone else sees active venues.
func Scope(a Actor) model.Visibility {
	if c, err := RequireClub(a); err == nil {
		return model.Visibility{ClubID: c.ClubID}
	}
	return model.Visibility{}
}

// CanView reports whether a single venue is visible to a.  Detail views are
// wider than listings: an active venue is visible to everyone, including
// other clubs.
func CanView(a Actor, v model.Venue) bool {
	return v.IsActive || Owns(a, v.ClubID) == nil
}

type ctxKey struct{}

// WithActor stores a in ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok && a != nil {
		return a
	}
	return Anonymous{}
}
