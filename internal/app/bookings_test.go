package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func newBookingService(f goaFixture) *app.BookingService {
	return app.NewBookingService(f.store, f.store, 18).WithClock(clock)
}

func newBooking(userID, hotelID int64) domain.NewBooking {
	return domain.NewBooking{
		UserID:        userID,
		HotelID:       hotelID,
		CheckIn:       day(2024, 1, 1),
		CheckOut:      day(2024, 1, 4),
		PaymentMethod: "upi",
		Guest:         domain.GuestDetails{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"},
	}
}

func TestCreateBooking_ChargesServerQuote(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)

	nb := newBooking(7, f.hotel.ID)
	nb.ClientTotal = pint64(1) // ignored
	b, err := svc.CreateBooking(context.Background(), nb)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.TotalPrice != 35400 {
		t.Fatalf("want total 35400, got %d", b.TotalPrice)
	}
	if b.Status != domain.StatusConfirmed || !b.CreatedAt.Equal(fixedNow) || b.ID == 0 {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestCreateBooking_RoundTrip17700(t *testing.T) {
	f := seedGoa(t)
	h, err := f.store.UpsertHotel(context.Background(), domain.Hotel{
		Name: "Budget Inn", CityID: f.panaji.ID, StateID: f.goa.ID, Price: 5000, Rating: 3,
	})
	if err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}
	b, err := newBookingService(f).CreateBooking(context.Background(), newBooking(7, h.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.TotalPrice != 17700 {
		t.Fatalf("want 17700, got %d", b.TotalPrice)
	}
}

func TestCreateBooking_Rejects(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()

	inverted := newBooking(7, f.hotel.ID)
	inverted.CheckIn, inverted.CheckOut = inverted.CheckOut, inverted.CheckIn
	if _, err := svc.CreateBooking(ctx, inverted); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("inverted range: want ErrInvalidInput, got %v", err)
	}

	same := newBooking(7, f.hotel.ID)
	same.CheckOut = same.CheckIn
	if _, err := svc.CreateBooking(ctx, same); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty range: want ErrInvalidInput, got %v", err)
	}

	if _, err := svc.CreateBooking(ctx, newBooking(7, 999)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown hotel: want ErrNotFound, got %v", err)
	}

	if list, _ := f.store.ListBookingsByUser(ctx, 7); len(list) != 0 {
		t.Fatalf("rejected bookings must not be stored: %+v", list)
	}
}

func TestQuote_RejectsOverlongStay(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	_, err := svc.Quote(context.Background(), f.hotel.ID, day(1000, 1, 1), day(9999, 12, 31))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Field != "checkOutDate" {
		t.Fatalf("want checkOutDate field error, got %v", err)
	}

	nb := newBooking(7, f.hotel.ID)
	nb.CheckOut = nb.CheckIn.AddDate(2, 0, 0)
	if _, err := svc.CreateBooking(context.Background(), nb); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("CreateBooking: want ErrInvalidInput, got %v", err)
	}
	if list, _ := f.store.ListBookingsByUser(context.Background(), 7); len(list) != 0 {
		t.Fatalf("overlong stay must not be stored: %+v", list)
	}
}

func TestCancelBooking_Lifecycle(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.CancelBooking(ctx, b.ID, 8); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner: want ErrForbidden, got %v", err)
	}
	if got, _ := f.store.GetBooking(ctx, b.ID); got.Status != domain.StatusConfirmed {
		t.Fatalf("forbidden cancel changed status: %s", got.Status)
	}

	c, err := svc.CancelBooking(ctx, b.ID, 7)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if c.Status != domain.StatusCancelled || c.TotalPrice != b.TotalPrice {
		t.Fatalf("unexpected cancelled booking: %+v", c)
	}

	if _, err := svc.CancelBooking(ctx, b.ID, 7); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: want ErrAlreadyCancelled, got %v", err)
	}
	if got, _ := f.store.GetBooking(ctx, b.ID); got.Status != domain.StatusCancelled {
		t.Fatalf("status after double cancel: %s", got.Status)
	}

	if _, err := svc.CancelBooking(ctx, 999, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown booking: want ErrNotFound, got %v", err)
	}
}

// staleBookings always reads a booking as still confirmed, the view a
// request has when another cancel lands between its read and its write.
type staleBookings struct{ *memory.Store }

func (s staleBookings) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.Store.GetBooking(ctx, id)
	b.Status = domain.StatusConfirmed
	return b, err
}

func TestCancelBooking_StaleReadStillCancelsOnce(t *testing.T) {
	f := seedGoa(t)
	ctx := context.Background()
	b, err := newBookingService(f).CreateBooking(ctx, newBooking(7, f.hotel.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	svc := app.NewBookingService(staleBookings{f.store}, f.store, 18)
	if _, err := svc.CancelBooking(ctx, b.ID, 7); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	got, err := svc.CancelBooking(ctx, b.ID, 7)
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: want ErrAlreadyCancelled, got %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("second cancel should report stored status, got %s", got.Status)
	}
}

func TestCancelBooking_ConcurrentCancelsSucceedOnce(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()
	b, err := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	var ok, already atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CancelBooking(ctx, b.ID, 7)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrAlreadyCancelled):
				already.Add(1)
			}
		}()
	}
	wg.Wait()
	if ok.Load() != 1 || already.Load() != 15 {
		t.Fatalf("want 1 success and 15 already-cancelled, got %d and %d", ok.Load(), already.Load())
	}
}

func TestListBookingsForUser_JoinsCurrentHotel(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()

	first, _ := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))
	second, _ := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))
	if _, err := svc.CreateBooking(ctx, newBooking(8, f.hotel.ID)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// later catalog edits show up on old bookings
	renamed := f.hotel
	renamed.Description = "renovated"
	if _, err := f.store.UpsertHotel(ctx, renamed); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	list, err := svc.ListBookingsForUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListBookingsForUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("want newest first for user 7, got %+v", list)
	}
	for _, b := range list {
		if b.Hotel == nil || b.Hotel.StateName != "Goa" || b.Hotel.CityName != "Panaji" || b.Hotel.Description != "renovated" {
			t.Fatalf("unexpected hotel snapshot: %+v", b.Hotel)
		}
	}
}

func TestGetBooking_OwnerOnly(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()
	b, _ := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))

	got, err := svc.GetBooking(ctx, b.ID, 7)
	if err != nil || got.ID != b.ID || got.Hotel == nil {
		t.Fatalf("GetBooking: %+v %v", got, err)
	}
	if _, err := svc.GetBooking(ctx, b.ID, 8); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestQuote_MatchesCharge(t *testing.T) {
	f := seedGoa(t)
	svc := newBookingService(f)
	ctx := context.Background()

	q, err := svc.Quote(ctx, f.hotel.ID, day(2024, 1, 1), day(2024, 1, 4))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	b, _ := svc.CreateBooking(ctx, newBooking(7, f.hotel.ID))
	if q.Nights != 3 || q.Subtotal != 30000 || q.Tax != 5400 || q.Total != b.TotalPrice {
		t.Fatalf("quote %+v vs charged %d", q, b.TotalPrice)
	}
}

// failingBookings lets the catalog work but refuses every booking write.
type failingBookings struct{ domain.BookingRepository }

func (failingBookings) CreateBooking(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, errors.New("disk full")
}

func TestCreateBooking_StoreFailurePropagates(t *testing.T) {
	f := seedGoa(t)
	svc := app.NewBookingService(failingBookings{f.store}, f.store, 18)
	if _, err := svc.CreateBooking(context.Background(), newBooking(7, f.hotel.ID)); err == nil || errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want store error, got %v", err)
	}
}
