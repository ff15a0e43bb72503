package domain

import "time"

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type GuestDetails struct {
	Name            string `json:"guestName"`
	Email           string `json:"guestEmail"`
	Phone           string `json:"guestPhone"`
	SpecialRequests string `json:"specialRequests"`
}

type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	HotelID       int64         `json:"hotelId"`
	CheckInDate   time.Time     `json:"checkInDate"`
	CheckOutDate  time.Time     `json:"checkOutDate"`
	TotalPrice    int64         `json:"totalPrice"`
	Status        BookingStatus `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	GuestDetails
	CreatedAt time.Time `json:"createdAt"`
}

// Cancel moves a confirmed booking to cancelled. Cancelled is terminal.
func (b Booking) Cancel() (Booking, error) {
	if b.Status == StatusCancelled {
		return b, ErrAlreadyCancelled
	}
	b.Status = StatusCancelled
	return b, nil
}

// NewBooking is a validated booking candidate, fully typed before any write.
type NewBooking struct {
	UserID        int64
	HotelID       int64
	CheckIn       time.Time
	CheckOut      time.Time
	PaymentMethod string
	Guest         GuestDetails
	// ClientTotal is the total the client displayed, if it sent one.
	ClientTotal *int64
}

// BookingWithHotel pairs a booking with the hotel as it reads now, not as it
// was when booked. Hotel is nil when the hotel no longer exists.
type BookingWithHotel struct {
	Booking
	Hotel *HotelWithLocation `json:"hotel"`
}
