package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// SeedService loads a catalog snapshot into the store. Running it twice with
// the same snapshot leaves the store unchanged apart from offer windows,
// which are re-anchored at the current time.
type SeedService struct {
	catalog domain.CatalogRepository
	offers  domain.OfferRepository
	workers int64
	now     func() time.Time
}

type SeedReport struct {
	States   int `json:"states"`
	Cities   int `json:"cities"`
	Hotels   int `json:"hotels"`
	Packages int `json:"packages"`
	Offers   int `json:"offers"`
	Skipped  int `json:"skipped"`
}

func NewSeedService(c domain.CatalogRepository, o domain.OfferRepository, workers int) *SeedService {
	if workers <= 0 {
		workers = 4
	}
	return &SeedService{catalog: c, offers: o, workers: int64(workers), now: time.Now}
}

func (s *SeedService) WithClock(now func() time.Time) *SeedService {
	s.now = now
	return s
}

func (s *SeedService) Seed(ctx context.Context, snap domain.CatalogSnapshot) (SeedReport, error) {
	var rep SeedReport

	states := make(map[string]int64, len(snap.States))
	for _, name := range snap.States {
		st, err := s.catalog.UpsertState(ctx, domain.State{Name: name})
		if err != nil {
			return rep, fmt.Errorf("upsert state %q: %w", name, err)
		}
		states[normName(name)] = st.ID
		rep.States++
	}

	cities := make(map[cityKey]int64, len(snap.Cities))
	for _, c := range snap.Cities {
		stateID, ok := states[normName(c.State)]
		if !ok {
			log.Warn().Str("city", c.Name).Str("state", c.State).Msg("seed: unknown state, city skipped")
			rep.Skipped++
			continue
		}
		city, err := s.catalog.UpsertCity(ctx, domain.City{Name: c.Name, StateID: stateID})
		if err != nil {
			return rep, fmt.Errorf("upsert city %q: %w", c.Name, err)
		}
		cities[cityKey{normName(c.State), normName(c.Name)}] = city.ID
		rep.Cities++
	}

	hotels, skipped, err := s.seedHotels(ctx, snap.Hotels, states, cities)
	rep.Hotels, rep.Skipped = hotels, rep.Skipped+skipped
	if err != nil {
		return rep, err
	}

	now := s.now()
	for _, o := range snap.Offers {
		if _, err := s.offers.UpsertOffer(ctx, mapSeedOffer(o, now)); err != nil {
			return rep, fmt.Errorf("upsert offer %q: %w", o.Code, err)
		}
		rep.Offers++
	}
	for _, p := range snap.Packages {
		if _, err := s.offers.UpsertPackage(ctx, mapSeedPackage(p)); err != nil {
			return rep, fmt.Errorf("upsert package %q: %w", p.Title, err)
		}
		rep.Packages++
	}

	observability.ObserveSeed("states", rep.States)
	observability.ObserveSeed("cities", rep.Cities)
	observability.ObserveSeed("hotels", rep.Hotels)
	observability.ObserveSeed("offers", rep.Offers)
	observability.ObserveSeed("packages", rep.Packages)
	log.Info().
		Int("states", rep.States).
		Int("cities", rep.Cities).
		Int("hotels", rep.Hotels).
		Int("offers", rep.Offers).
		Int("packages", rep.Packages).
		Int("skipped", rep.Skipped).
		Msg("catalog seeded")
	return rep, nil
}

// seedHotels upserts hotels with at most s.workers writes in flight.
func (s *SeedService) seedHotels(ctx context.Context, in []domain.SeedHotel, states map[string]int64, cities map[cityKey]int64) (int, int, error) {
	sem := semaphore.NewWeighted(s.workers)
	g, gctx := errgroup.WithContext(ctx)
	var done, skipped atomic.Int64

	for _, h := range in {
		stateID, okS := states[normName(h.State)]
		cityID, okC := cities[cityKey{normName(h.State), normName(h.City)}]
		if !okS || !okC {
			log.Warn().Str("hotel", h.Name).Str("city", h.City).Str("state", h.State).Msg("seed: unknown location, hotel skipped")
			skipped.Add(1)
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		row := mapSeedHotel(h, stateID, cityID)
		g.Go(func() error {
			defer sem.Release(1)
			if _, err := s.catalog.UpsertHotel(gctx, row); err != nil {
				return fmt.Errorf("upsert hotel %q: %w", row.Name, err)
			}
			done.Add(1)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return int(done.Load()), int(skipped.Load()), err
}
