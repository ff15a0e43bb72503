package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/pricing"
)

// BookingService owns the booking lifecycle: confirmed -> cancelled.
type BookingService struct {
	bookings domain.BookingRepository
	catalog  domain.CatalogRepository
	taxRate  int64
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, c domain.CatalogRepository, taxRate int64) *BookingService {
	return &BookingService{bookings: b, catalog: c, taxRate: taxRate, now: time.Now}
}

// WithClock replaces the clock used for createdAt.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Quote prices a stay at a hotel with the same calculator CreateBooking uses.
func (s *BookingService) Quote(ctx context.Context, hotelID int64, checkIn, checkOut time.Time) (pricing.Quote, error) {
	h, err := s.catalog.GetHotel(ctx, hotelID)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("hotel %d: %w", hotelID, err)
	}
	if fe, ok := StayRangeError(checkIn, checkOut); !ok {
		return pricing.Quote{}, &domain.ValidationError{Fields: []domain.FieldError{fe}}
	}
	return pricing.NewQuote(h.Price, checkIn, checkOut, s.taxRate)
}

// CreateBooking prices and stores a confirmed booking. The stored total is
// computed here; a total sent by the client is only compared and logged.
func (s *BookingService) CreateBooking(ctx context.Context, nb domain.NewBooking) (domain.Booking, error) {
	q, err := s.Quote(ctx, nb.HotelID, nb.CheckIn, nb.CheckOut)
	if err != nil {
		observability.ObserveBooking("rejected")
		return domain.Booking{}, err
	}
	if nb.ClientTotal != nil && *nb.ClientTotal != q.Total {
		log.Warn().
			Int64("user_id", nb.UserID).
			Int64("hotel_id", nb.HotelID).
			Int64("client_total", *nb.ClientTotal).
			Int64("server_total", q.Total).
			Msg("client total differs from quote; charging quote")
	}

	b, err := s.bookings.CreateBooking(ctx, domain.Booking{
		UserID:        nb.UserID,
		HotelID:       nb.HotelID,
		CheckInDate:   nb.CheckIn,
		CheckOutDate:  nb.CheckOut,
		TotalPrice:    q.Total,
		Status:        domain.StatusConfirmed,
		PaymentMethod: nb.PaymentMethod,
		GuestDetails:  nb.Guest,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return domain.Booking{}, err
	}
	observability.ObserveBooking("created")
	log.Info().
		Int64("booking_id", b.ID).
		Int64("user_id", b.UserID).
		Int64("hotel_id", b.HotelID).
		Int64("nights", q.Nights).
		Int64("total", b.TotalPrice).
		Msg("booking created")
	return b, nil
}

// ListBookingsForUser joins each booking with the hotel as it reads now.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID int64) ([]domain.BookingWithHotel, error) {
	bs, err := s.bookings.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	hotels := map[int64]*domain.HotelWithLocation{}
	out := make([]domain.BookingWithHotel, 0, len(bs))
	for _, b := range bs {
		h, ok := hotels[b.HotelID]
		if !ok {
			if h, err = s.hotelSnapshot(ctx, b.HotelID); err != nil {
				return nil, err
			}
			hotels[b.HotelID] = h
		}
		out = append(out, domain.BookingWithHotel{Booking: b, Hotel: h})
	}
	return out, nil
}

// GetBooking returns one booking of its owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID int64) (domain.BookingWithHotel, error) {
	b, err := s.owned(ctx, bookingID, userID)
	if err != nil {
		return domain.BookingWithHotel{}, err
	}
	h, err := s.hotelSnapshot(ctx, b.HotelID)
	if err != nil {
		return domain.BookingWithHotel{}, err
	}
	return domain.BookingWithHotel{Booking: b, Hotel: h}, nil
}

// CancelBooking moves the owner's confirmed booking to cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) (domain.Booking, error) {
	b, err := s.owned(ctx, bookingID, userID)
	if err != nil {
		return domain.Booking{}, err
	}
	cancelled, err := b.Cancel()
	if err != nil {
		return b, err
	}
	updated, err := s.bookings.UpdateBookingStatus(ctx, b.ID, b.Status, cancelled.Status)
	if errors.Is(err, domain.ErrAlreadyCancelled) {
		return updated, err
	}
	if err != nil {
		return domain.Booking{}, err
	}
	observability.ObserveBooking("cancelled")
	log.Info().Int64("booking_id", b.ID).Int64("user_id", userID).Msg("booking cancelled")
	return updated, nil
}

func (s *BookingService) owned(ctx context.Context, bookingID, userID int64) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrForbidden
	}
	return b, nil
}

// hotelSnapshot returns nil for a hotel that no longer exists.
func (s *BookingService) hotelSnapshot(ctx context.Context, hotelID int64) (*domain.HotelWithLocation, error) {
	h, err := s.catalog.GetHotel(ctx, hotelID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
