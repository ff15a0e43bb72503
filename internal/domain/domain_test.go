package domain_test

import (
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/domain"
)

func TestBookingCancel(t *testing.T) {
	b := domain.Booking{ID: 1, Status: domain.StatusConfirmed}

	c, err := b.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c.Status != domain.StatusCancelled {
		t.Fatalf("status=%s", c.Status)
	}
	if b.Status != domain.StatusConfirmed {
		t.Fatalf("Cancel must not mutate the receiver")
	}

	again, err := c.Cancel()
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("want ErrAlreadyCancelled, got %v", err)
	}
	if again.Status != domain.StatusCancelled {
		t.Fatalf("status changed on failed cancel: %s", again.Status)
	}
}

func TestOfferIsApplicable(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	o := domain.Offer{
		Code:               "WELCOME20",
		DiscountPercentage: 20,
		ValidFrom:          from,
		ValidUntil:         from.AddDate(0, 1, 0),
		MinBookingAmount:   5000,
	}

	cases := []struct {
		name     string
		subtotal int64
		now      time.Time
		want     bool
	}{
		{"inside window, above min", 6000, from.AddDate(0, 0, 3), true},
		{"exactly min", 5000, from.AddDate(0, 0, 3), true},
		{"below min", 4999, from.AddDate(0, 0, 3), false},
		{"window start", 6000, from, true},
		{"window end", 6000, o.ValidUntil, true},
		{"before window", 6000, from.Add(-time.Second), false},
		{"after window", 6000, o.ValidUntil.Add(time.Second), false},
	}
	for _, c := range cases {
		if got := o.IsApplicable(c.subtotal, c.now); got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}

	if got := o.Apply(10000); got != 8000 {
		t.Fatalf("Apply(10000)=%d", got)
	}
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	err := error(domain.NewValidationError("checkOutDate", "must be after checkInDate"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput")
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields[0].Field != "checkOutDate" {
		t.Fatalf("unexpected: %v", err)
	}
}
