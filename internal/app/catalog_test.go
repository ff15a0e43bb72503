package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func TestCatalogService_ListHotelsByState(t *testing.T) {
	f := seedGoa(t)
	ctx := context.Background()
	kerala, err := f.store.UpsertState(ctx, domain.State{Name: "Kerala"})
	require.NoError(t, err)
	kochi, err := f.store.UpsertCity(ctx, domain.City{Name: "Kochi", StateID: kerala.ID})
	require.NoError(t, err)
	_, err = f.store.UpsertHotel(ctx, domain.Hotel{Name: "Coconut Lagoon", CityID: kochi.ID, StateID: kerala.ID, Price: 8999, Rating: 4})
	require.NoError(t, err)

	svc := app.NewCatalogService(f.store)

	got, err := svc.ListHotels(ctx, domain.HotelFilter{StateID: pint64(f.goa.ID)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.hotel.ID, got[0].ID)
	assert.Equal(t, "Goa", got[0].StateName)
	assert.Equal(t, "Panaji", got[0].CityName)

	all, err := svc.ListHotels(ctx, domain.HotelFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.SearchHotels(ctx, "  GOA ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, f.hotel.ID, found[0].ID)

	byCity, err := svc.SearchHotels(ctx, "koch")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Coconut Lagoon", byCity[0].Name)
}

func TestCatalogService_ListCities(t *testing.T) {
	f := seedGoa(t)
	svc := app.NewCatalogService(f.store)
	ctx := context.Background()

	cities, err := svc.ListCities(ctx, f.goa.ID)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Panaji", cities[0].Name)

	_, err = svc.ListCities(ctx, 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestCatalogService_ComparisonViews(t *testing.T) {
	f := seedGoa(t)
	ctx := context.Background()
	kerala, err := f.store.UpsertState(ctx, domain.State{Name: "Kerala"})
	require.NoError(t, err)
	_, err = f.store.UpsertCity(ctx, domain.City{Name: "Kochi", StateID: kerala.ID})
	require.NoError(t, err)

	svc := app.NewCatalogService(f.store)
	cities, err := svc.ListAllCities(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 2)

	hotels, err := svc.HotelsByState(ctx, f.goa.ID)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, f.hotel.ID, hotels[0].ID)

	none, err := svc.HotelsByState(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalogService_GetNotFound(t *testing.T) {
	f := seedGoa(t)
	svc := app.NewCatalogService(f.store)
	ctx := context.Background()

	_, err := svc.GetHotel(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetState(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	st, err := svc.GetState(ctx, f.goa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Goa", st.Name)
}
