package domain

import (
	"time"

	"hotel_booking/internal/pricing"
)

type Package struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Duration    int      `json:"duration"` // nights
	Inclusions  []string `json:"inclusions"`
	ImageURL    string   `json:"image_url"`
}

type Offer struct {
	ID                 int64     `json:"id"`
	Code               string    `json:"code"`
	Description        string    `json:"description"`
	DiscountPercentage int64     `json:"discount_percentage"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidUntil         time.Time `json:"valid_until"`
	MinBookingAmount   int64     `json:"min_booking_amount"`
}

func (o Offer) ActiveAt(now time.Time) bool {
	return !now.Before(o.ValidFrom) && !now.After(o.ValidUntil)
}

// IsApplicable reports whether the offer can discount subtotal at now.
func (o Offer) IsApplicable(subtotal int64, now time.Time) bool {
	return o.ActiveAt(now) && subtotal >= o.MinBookingAmount
}

func (o Offer) Apply(subtotal int64) int64 {
	return pricing.Discounted(subtotal, o.DiscountPercentage)
}
