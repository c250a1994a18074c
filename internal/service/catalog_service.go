package service

import (
	"context"

	"github.com/canchaya/canchas-api/internal/model"
)

// CatalogService serves the read-only master data.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Departments(ctx context.Context, search string) ([]model.Department, error) {
	return s.store.ListDepartments(ctx, search)
}

func (s *CatalogService) Department(ctx context.Context, id uint64) (*model.Department, error) {
	return s.store.GetDepartment(ctx, id)
}

// DepartmentCities lists the cities of one department; an unknown
// department is NotFound rather than an empty list.
func (s *CatalogService) DepartmentCities(ctx context.Context, id uint64, search string) ([]model.City, error) {
	if _, err := s.store.GetDepartment(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListCities(ctx, model.CityFilter{DepartmentID: &id, Search: search})
}

func (s *CatalogService) Cities(ctx context.Context, f model.CityFilter) ([]model.City, error) {
	return s.store.ListCities(ctx, f)
}

func (s *CatalogService) City(ctx context.Context, id uint64) (*model.City, error) {
	return s.store.GetCity(ctx, id)
}

func (s *CatalogService) Sports(ctx context.Context, search string) ([]model.Sport, error) {
	return s.store.ListSports(ctx, search)
}

func (s *CatalogService) Sport(ctx context.Context, id uint64) (*model.Sport, error) {
	return s.store.GetSport(ctx, id)
}
