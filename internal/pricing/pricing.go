// Package pricing holds the pure price, tax and stay calculations shared by
// quotes and booking creation, so a displayed total and a charged total can
// never diverge.
package pricing

import (
	"errors"
	"time"
)

// DefaultTaxRate is the tax percentage applied to stays (18%).
const DefaultTaxRate int64 = 18

// MaxNights is the longest stay that can be priced.
const MaxNights int64 = 365

var (
	ErrInvalidRange = errors.New("pricing: check-out must be after check-in")
	ErrStayTooLong  = errors.New("pricing: stay is longer than MaxNights")
)

const secondsPerDay = 24 * 60 * 60

// Tax returns amount*rate/100 rounded half-up to the nearest integer.
func Tax(amount, rate int64) int64 {
	return roundDiv(amount*rate, 100)
}

func TotalWithTax(amount, rate int64) int64 {
	return amount + Tax(amount, rate)
}

// Nights counts the started days between check-in and check-out. It works
// on Unix seconds, so ranges wider than a time.Duration still count right.
func Nights(checkIn, checkOut time.Time) (int64, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidRange
	}
	secs := checkOut.Unix() - checkIn.Unix()
	n := secs / secondsPerDay
	if rem := secs % secondsPerDay; rem > 0 || (rem == 0 && checkOut.Nanosecond() > checkIn.Nanosecond()) {
		n++
	}
	if n > MaxNights {
		return n, ErrStayTooLong
	}
	return n, nil
}

func StayTotal(pricePerNight, nights int64) int64 {
	return pricePerNight * nights
}

// Discounted returns amount reduced by pct percent, rounded half-up.
func Discounted(amount, pct int64) int64 {
	if pct <= 0 {
		return amount
	}
	if pct >= 100 {
		return 0
	}
	return roundDiv(amount*(100-pct), 100)
}

// Quote is the priced breakdown of a stay.
type Quote struct {
	PricePerNight int64 `json:"pricePerNight"`
	Nights        int64 `json:"nights"`
	Subtotal      int64 `json:"subtotal"`
	TaxRate       int64 `json:"taxRate"`
	Tax           int64 `json:"tax"`
	Total         int64 `json:"total"`
}

func NewQuote(pricePerNight int64, checkIn, checkOut time.Time, rate int64) (Quote, error) {
	n, err := Nights(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	sub := StayTotal(pricePerNight, n)
	return Quote{
		PricePerNight: pricePerNight,
		Nights:        n,
		Subtotal:      sub,
		TaxRate:       rate,
		Tax:           Tax(sub, rate),
		Total:         TotalWithTax(sub, rate),
	}, nil
}

// roundDiv divides n by d rounding halves away from zero.
func roundDiv(n, d int64) int64 {
	if n < 0 {
		return -roundDiv(-n, d)
	}
	return (n + d/2) / d
}
