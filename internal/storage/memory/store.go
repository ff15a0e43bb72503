// Package memory is the process-local Store: maps keyed by id with one
// incrementing counter per table. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	states   map[int64]domain.State
	cities   map[int64]domain.City
	hotels   map[int64]domain.Hotel
	bookings map[int64]domain.Booking
	packages map[int64]domain.Package
	offers   map[int64]domain.Offer
	users    map[int64]domain.User

	seq map[string]int64
}

var _ domain.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		states:   map[int64]domain.State{},
		cities:   map[int64]domain.City{},
		hotels:   map[int64]domain.Hotel{},
		bookings: map[int64]domain.Booking{},
		packages: map[int64]domain.Package{},
		offers:   map[int64]domain.Offer{},
		users:    map[int64]domain.User{},
		seq:      map[string]int64{},
	}
}

// next must be called with mu held for writing.
func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ---- catalog ----

func (s *Store) UpsertState(ctx context.Context, st domain.State) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.states {
		if cur.Name == st.Name {
			return cur, nil
		}
	}
	st.ID = s.next("states")
	s.states[st.ID] = st
	return st, nil
}

func (s *Store) UpsertCity(ctx context.Context, c domain.City) (domain.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[c.StateID]; !ok {
		return domain.City{}, fmt.Errorf("city %q: state %d: %w", c.Name, c.StateID, domain.ErrNotFound)
	}
	for _, cur := range s.cities {
		if cur.Name == c.Name && cur.StateID == c.StateID {
			return cur, nil
		}
	}
	c.ID = s.next("cities")
	s.cities[c.ID] = c
	return c, nil
}

func (s *Store) UpsertHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.Images = append([]string(nil), h.Images...)
	h.Amenities = append([]string(nil), h.Amenities...)
	for id, cur := range s.hotels {
		if cur.Name == h.Name && cur.CityID == h.CityID {
			h.ID = id
			s.hotels[id] = h
			return h, nil
		}
	}
	h.ID = s.next("hotels")
	s.hotels[h.ID] = h
	return h, nil
}

func (s *Store) ListStates(ctx context.Context) ([]domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.State, 0, len(s.states))
	for _, id := range sortedIDs(s.states) {
		out = append(out, s.states[id])
	}
	return out, nil
}

func (s *Store) GetState(ctx context.Context, id int64) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok {
		return domain.State{}, domain.ErrNotFound
	}
	return st, nil
}

func (s *Store) ListCities(ctx context.Context, stateID *int64) ([]domain.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.City{}
	for _, id := range sortedIDs(s.cities) {
		c := s.cities[id]
		if stateID != nil && c.StateID != *stateID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetHotel(ctx context.Context, id int64) (domain.HotelWithLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.HotelWithLocation{}, domain.ErrNotFound
	}
	return s.withLocation(h), nil
}

func (s *Store) GetHotelsWithLocation(ctx context.Context, f domain.HotelFilter) ([]domain.HotelWithLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []domain.HotelWithLocation{}
	for _, id := range sortedIDs(s.hotels) {
		hl := s.withLocation(s.hotels[id])
		switch {
		case f.StateID != nil:
			if hl.StateID != *f.StateID {
				continue
			}
		case f.CityID != nil:
			if hl.CityID != *f.CityID {
				continue
			}
		case q != "":
			if !matchesQuery(hl, q) {
				continue
			}
		}
		out = append(out, hl)
	}
	return out, nil
}

// withLocation must be called with mu held.
func (s *Store) withLocation(h domain.Hotel) domain.HotelWithLocation {
	h.Images = append([]string(nil), h.Images...)
	h.Amenities = append([]string(nil), h.Amenities...)
	return domain.HotelWithLocation{
		Hotel:     h,
		StateName: s.states[h.StateID].Name,
		CityName:  s.cities[h.CityID].Name,
	}
}

func matchesQuery(h domain.HotelWithLocation, q string) bool {
	return strings.Contains(strings.ToLower(h.Name), q) ||
		strings.Contains(strings.ToLower(h.CityName), q) ||
		strings.Contains(strings.ToLower(h.StateName), q)
}

// ---- bookings ----

func (s *Store) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.next("bookings")
	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Booking{}
	ids := sortedIDs(s.bookings)
	for i := len(ids) - 1; i >= 0; i-- {
		if b := s.bookings[ids[i]]; b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	if b.Status != from {
		return b, domain.ErrAlreadyCancelled
	}
	b.Status = to
	s.bookings[id] = b
	return b, nil
}

// ---- packages & offers ----

func (s *Store) UpsertPackage(ctx context.Context, p domain.Package) (domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Inclusions = append([]string(nil), p.Inclusions...)
	for id, cur := range s.packages {
		if cur.Title == p.Title {
			p.ID = id
			s.packages[id] = p
			return p, nil
		}
	}
	p.ID = s.next("packages")
	s.packages[p.ID] = p
	return p, nil
}

func (s *Store) UpsertOffer(ctx context.Context, o domain.Offer) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cur := range s.offers {
		if strings.EqualFold(cur.Code, o.Code) {
			o.ID = id
			s.offers[id] = o
			return o, nil
		}
	}
	o.ID = s.next("offers")
	s.offers[o.ID] = o
	return o, nil
}

func (s *Store) ListPackages(ctx context.Context) ([]domain.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Package, 0, len(s.packages))
	for _, id := range sortedIDs(s.packages) {
		out = append(out, s.packages[id])
	}
	return out, nil
}

func (s *Store) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Offer, 0, len(s.offers))
	for _, id := range sortedIDs(s.offers) {
		out = append(out, s.offers[id])
	}
	return out, nil
}

func (s *Store) GetOfferByCode(ctx context.Context, code string) (domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.offers {
		if strings.EqualFold(o.Code, code) {
			return o, nil
		}
	}
	return domain.Offer{}, domain.ErrNotFound
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.users {
		if strings.EqualFold(cur.Email, u.Email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	u.ID = s.next("users")
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}
