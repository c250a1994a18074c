package service

import (
	"context"

	"github.com/canchaya/canchas-api/internal/model"
)

// VenueStore persists venues.  Implementations enforce the (club, name)
// unique key and report collisions as a *model.ValidationError.
type VenueStore interface {
	CreateVenue(ctx context.Context, v *model.Venue) error
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
	ListVenues(ctx context.Context, f model.VenueFilter) ([]model.Venue, error)
	UpdateVenue(ctx context.Context, v *model.Venue) error
	DeleteVenue(ctx context.Context, id uint64) (int, error)
	VenueNameTaken(ctx context.Context, clubID uint64, name string, excludeID uint64) (bool, error)
	ClubContact(ctx context.Context, clubID uint64) (*model.ClubContact, error)
}

// TariffStore persists tariffs.  Implementations reject inverted intervals
// on their own, independently of model.NewTariff.
type TariffStore interface {
	CreateTariff(ctx context.Context, t *model.Tariff) error
	GetTariff(ctx context.Context, id uint64) (*model.Tariff, error)
	ListTariffs(ctx context.Context, f model.TariffFilter) ([]model.Tariff, error)
	ListVenueTariffs(ctx context.Context, venueID uint64) ([]model.Tariff, error)
	UpdateTariff(ctx context.Context, t *model.Tariff) error
	DeleteTariff(ctx context.Context, id uint64) error
}

// CatalogStore reads the master data.
type CatalogStore interface {
	ListDepartments(ctx context.Context, search string) ([]model.Department, error)
	GetDepartment(ctx context.Context, id uint64) (*model.Department, error)
	ListCities(ctx context.Context, f model.CityFilter) ([]model.City, error)
	GetCity(ctx context.Context, id uint64) (*model.City, error)
	CityInDepartment(ctx context.Context, cityID, departmentID uint64) (bool, error)
	ListSports(ctx context.Context, search string) ([]model.Sport, error)
	GetSport(ctx context.Context, id uint64) (*model.Sport, error)
}

// UserStore persists accounts and their profiles.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	CreateClub(ctx context.Context, u *model.User, c *model.Club) error
	CreateAthlete(ctx context.Context, u *model.User, a *model.Athlete) error
	ClubByUserID(ctx context.Context, userID uint64) (*model.Club, error)
	AthleteByUserID(ctx context.Context, userID uint64) (*model.Athlete, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	NITTaken(ctx context.Context, nit string) (bool, error)
	DocumentTaken(ctx context.Context, document string) (bool, error)
}
