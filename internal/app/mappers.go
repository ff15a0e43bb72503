package app

import (
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

// Snapshot rows reference their parents by name; these helpers turn them into
// storable domain rows once the parent ids are known.

type cityKey struct{ state, city string }

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampRating(r int) int {
	switch {
	case r < 1:
		return 1
	case r > 5:
		return 5
	}
	return r
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mapSeedHotel(h domain.SeedHotel, stateID, cityID int64) domain.Hotel {
	available := true
	if h.Availability != nil {
		available = *h.Availability
	}
	return domain.Hotel{
		Name:         strings.TrimSpace(h.Name),
		Description:  strings.TrimSpace(h.Description),
		CityID:       cityID,
		StateID:      stateID,
		Price:        h.Price,
		Rating:       clampRating(h.Rating),
		Images:       cleanList(h.Images),
		Amenities:    cleanList(h.Amenities),
		Availability: available,
	}
}

// mapSeedOffer anchors the validity window at now.
func mapSeedOffer(o domain.SeedOffer, now time.Time) domain.Offer {
	months := o.ValidForMonths
	if months <= 0 {
		months = 1
	}
	from := now.UTC()
	return domain.Offer{
		Code:               strings.ToUpper(strings.TrimSpace(o.Code)),
		Description:        strings.TrimSpace(o.Description),
		DiscountPercentage: o.DiscountPercentage,
		ValidFrom:          from,
		ValidUntil:         from.AddDate(0, months, 0),
		MinBookingAmount:   o.MinBookingAmount,
	}
}

func mapSeedPackage(p domain.Package) domain.Package {
	p.ID = 0
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Inclusions = cleanList(p.Inclusions)
	return p
}
