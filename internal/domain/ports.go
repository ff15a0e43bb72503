package domain

import (
	"context"
	"time"
)

type CatalogRepository interface {
	// Write paths (seeding); upserts key on the natural key and return the stored row.
	UpsertState(ctx context.Context, s State) (State, error)
	UpsertCity(ctx context.Context, c City) (City, error)
	UpsertHotel(ctx context.Context, h Hotel) (Hotel, error)

	// Read paths
	ListStates(ctx context.Context) ([]State, error)
	GetState(ctx context.Context, id int64) (State, error)
	ListCities(ctx context.Context, stateID *int64) ([]City, error)
	GetHotel(ctx context.Context, id int64) (HotelWithLocation, error)
	GetHotelsWithLocation(ctx context.Context, f HotelFilter) ([]HotelWithLocation, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]Booking, error)
	// UpdateBookingStatus moves a booking from one status to another in a
	// single step. A booking no longer in from yields ErrAlreadyCancelled.
	UpdateBookingStatus(ctx context.Context, id int64, from, to BookingStatus) (Booking, error)
}

type OfferRepository interface {
	UpsertPackage(ctx context.Context, p Package) (Package, error)
	UpsertOffer(ctx context.Context, o Offer) (Offer, error)

	ListPackages(ctx context.Context) ([]Package, error)
	ListOffers(ctx context.Context) ([]Offer, error)
	GetOfferByCode(ctx context.Context, code string) (Offer, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// Store is one canonical storage backend. A process runs exactly one.
type Store interface {
	CatalogRepository
	BookingRepository
	OfferRepository
	UserRepository
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, sid string) (int64, error)
	Delete(ctx context.Context, sid string) error
}

// CatalogFeed fetches a full catalog snapshot from a remote source.
type CatalogFeed interface {
	GetSnapshot(ctx context.Context) (CatalogSnapshot, error)
}

// CatalogSnapshot is seed data where rows reference their parents by name.
type CatalogSnapshot struct {
	States   []string    `json:"states"`
	Cities   []SeedCity  `json:"cities"`
	Hotels   []SeedHotel `json:"hotels"`
	Packages []Package   `json:"packages"`
	Offers   []SeedOffer `json:"offers"`
}

type SeedCity struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type SeedHotel struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Price        int64    `json:"price"`
	Rating       int      `json:"rating"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Availability *bool    `json:"availability,omitempty"`
}

// SeedOffer expresses its validity window relative to the seeding time.
type SeedOffer struct {
	Code               string `json:"code"`
	Description        string `json:"description"`
	DiscountPercentage int64  `json:"discount_percentage"`
	ValidForMonths     int    `json:"valid_for_months"`
	MinBookingAmount   int64  `json:"min_booking_amount"`
}
