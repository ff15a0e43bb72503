package app_test

import (
	"context"
	"testing"
	"time"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

var fixedNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func pint64(i int64) *int64 { return &i }

type goaFixture struct {
	store  *memory.Store
	goa    domain.State
	panaji domain.City
	hotel  domain.Hotel
}

// seedGoa builds the smallest catalog: Goa / Panaji / one hotel at 10000.
func seedGoa(t *testing.T) goaFixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	goa, err := st.UpsertState(ctx, domain.State{Name: "Goa"})
	if err != nil {
		t.Fatalf("UpsertState: %v", err)
	}
	panaji, err := st.UpsertCity(ctx, domain.City{Name: "Panaji", StateID: goa.ID})
	if err != nil {
		t.Fatalf("UpsertCity: %v", err)
	}
	h, err := st.UpsertHotel(ctx, domain.Hotel{
		Name: "Taj Exotica Goa", CityID: panaji.ID, StateID: goa.ID,
		Price: 10000, Rating: 5, Availability: true,
	})
	if err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}
	return goaFixture{store: st, goa: goa, panaji: panaji, hotel: h}
}
