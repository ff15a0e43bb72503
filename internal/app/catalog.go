package app

import (
	"context"
	"fmt"
	"strings"

	"hotel_booking/internal/domain"
)

// CatalogService serves states, cities and hotels straight from the store.
type CatalogService struct {
	repo domain.CatalogRepository
}

func NewCatalogService(r domain.CatalogRepository) *CatalogService {
	return &CatalogService{repo: r}
}

func (s *CatalogService) ListStates(ctx context.Context) ([]domain.State, error) {
	return s.repo.ListStates(ctx)
}

func (s *CatalogService) GetState(ctx context.Context, id int64) (domain.State, error) {
	return s.repo.GetState(ctx, id)
}

// ListCities returns the cities of a state; an unknown state is ErrNotFound
// rather than an empty list.
func (s *CatalogService) ListCities(ctx context.Context, stateID int64) ([]domain.City, error) {
	if _, err := s.repo.GetState(ctx, stateID); err != nil {
		return nil, fmt.Errorf("state %d: %w", stateID, err)
	}
	return s.repo.ListCities(ctx, &stateID)
}

// ListAllCities returns every city across states.
func (s *CatalogService) ListAllCities(ctx context.Context) ([]domain.City, error) {
	return s.repo.ListCities(ctx, nil)
}

// HotelsByState lists the hotels of a state. An unknown state yields an
// empty list, as the comparison view expects.
func (s *CatalogService) HotelsByState(ctx context.Context, stateID int64) ([]domain.HotelWithLocation, error) {
	return s.repo.GetHotelsWithLocation(ctx, domain.HotelFilter{StateID: &stateID})
}

func (s *CatalogService) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.HotelWithLocation, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.GetHotelsWithLocation(ctx, f)
}

func (s *CatalogService) SearchHotels(ctx context.Context, query string) ([]domain.HotelWithLocation, error) {
	return s.ListHotels(ctx, domain.HotelFilter{Query: query})
}

func (s *CatalogService) GetHotel(ctx context.Context, id int64) (domain.HotelWithLocation, error) {
	return s.repo.GetHotel(ctx, id)
}
