package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/pricing"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateBookingRequest is the POST /bookings body.
type CreateBookingRequest struct {
	HotelID         int64  `json:"hotelId" validate:"required,gt=0"`
	CheckInDate     string `json:"checkInDate" validate:"required"`
	CheckOutDate    string `json:"checkOutDate" validate:"required"`
	TotalPrice      *int64 `json:"totalPrice" validate:"omitempty,gte=0"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=upi card netbanking wallet"`
	GuestName       string `json:"guestName" validate:"required,max=255"`
	GuestEmail      string `json:"guestEmail" validate:"required,email,max=255"`
	GuestPhone      string `json:"guestPhone" validate:"required,min=7,max=20"`
	SpecialRequests string `json:"specialRequests" validate:"max=2000"`
}

// ToNewBooking validates the request and builds the typed candidate.
// Every failure comes back as a *domain.ValidationError.
func (r CreateBookingRequest) ToNewBooking(userID int64) (domain.NewBooking, error) {
	var fields []domain.FieldError
	if err := validate.Struct(r); err != nil {
		fields = append(fields, fieldErrors(err)...)
	}

	in, inErr := parseDate(r.CheckInDate)
	if r.CheckInDate != "" && inErr != nil {
		fields = append(fields, domain.FieldError{Field: "checkInDate", Message: dateMessage})
	}
	out, outErr := parseDate(r.CheckOutDate)
	if r.CheckOutDate != "" && outErr != nil {
		fields = append(fields, domain.FieldError{Field: "checkOutDate", Message: dateMessage})
	}
	if inErr == nil && outErr == nil {
		if fe, ok := StayRangeError(in, out); !ok {
			fields = append(fields, fe)
		}
	}
	if len(fields) > 0 {
		return domain.NewBooking{}, &domain.ValidationError{Fields: fields}
	}

	return domain.NewBooking{
		UserID:        userID,
		HotelID:       r.HotelID,
		CheckIn:       in,
		CheckOut:      out,
		PaymentMethod: r.PaymentMethod,
		Guest: domain.GuestDetails{
			Name:            strings.TrimSpace(r.GuestName),
			Email:           strings.TrimSpace(r.GuestEmail),
			Phone:           strings.TrimSpace(r.GuestPhone),
			SpecialRequests: r.SpecialRequests,
		},
		ClientTotal: r.TotalPrice,
	}, nil
}

// ParseStayRange reads a check-in/check-out pair from query strings.
func ParseStayRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	var fields []domain.FieldError
	in, err := parseDate(checkIn)
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "checkIn", Message: dateMessage})
	}
	out, err2 := parseDate(checkOut)
	if err2 != nil {
		fields = append(fields, domain.FieldError{Field: "checkOut", Message: dateMessage})
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, &domain.ValidationError{Fields: fields}
	}
	return in, out, nil
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ValidateOfferRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Subtotal int64  `json:"subtotal" validate:"gte=0"`
}

// Validate runs the struct tags of any request type.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return &domain.ValidationError{Fields: fieldErrors(err)}
	}
	return nil
}

func fieldErrors(err error) []domain.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt", "gte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "failed " + fe.Tag() + " check"
}

// StayRangeError reports why a parsed stay cannot be priced, against the
// checkOutDate field. ok is true for a bookable range.
func StayRangeError(in, out time.Time) (fe domain.FieldError, ok bool) {
	n, err := pricing.Nights(in, out)
	switch {
	case errors.Is(err, pricing.ErrInvalidRange):
		return domain.FieldError{Field: "checkOutDate", Message: "must be after checkInDate"}, false
	case errors.Is(err, pricing.ErrStayTooLong):
		return domain.FieldError{
			Field:   "checkOutDate",
			Message: fmt.Sprintf("stay must be at most %d nights, got %d", pricing.MaxNights, n),
		}, false
	}
	return domain.FieldError{}, true
}

const dateMessage = "must be an ISO-8601 date between 1000-01-01 and 9999-12-31"

// bookings are stored as DATETIME, which holds years 1000 to 9999
var (
	earliestDate = time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	latestDate   = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
)

// parseDate accepts RFC 3339 timestamps (what browsers send from
// toISOString) and bare YYYY-MM-DD dates, both read as UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t, err = time.Parse(time.DateOnly, s); err != nil {
			return time.Time{}, err
		}
	}
	t = t.UTC()
	if t.Before(earliestDate) || !t.Before(latestDate) {
		return time.Time{}, fmt.Errorf("date %s out of range", s)
	}
	return t, nil
}
