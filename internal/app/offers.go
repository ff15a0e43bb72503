package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

type OfferService struct {
	repo domain.OfferRepository
	now  func() time.Time
}

func NewOfferService(r domain.OfferRepository) *OfferService {
	return &OfferService{repo: r, now: time.Now}
}

func (s *OfferService) WithClock(now func() time.Time) *OfferService {
	s.now = now
	return s
}

func (s *OfferService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.repo.ListPackages(ctx)
}

func (s *OfferService) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	return s.repo.ListOffers(ctx)
}

func (s *OfferService) GetOfferByCode(ctx context.Context, code string) (domain.Offer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Offer{}, domain.NewValidationError("code", "is required")
	}
	o, err := s.repo.GetOfferByCode(ctx, code)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("offer %q: %w", code, err)
	}
	return o, nil
}

// OfferEvaluation is advisory: nothing records that an offer was used.
type OfferEvaluation struct {
	Offer      domain.Offer `json:"offer"`
	Subtotal   int64        `json:"subtotal"`
	Applicable bool         `json:"applicable"`
	Reason     string       `json:"reason,omitempty"`
	Discounted int64        `json:"discounted"`
}

// Evaluate checks whether the offer with code applies to subtotal right now
// and, if so, what the subtotal becomes.
func (s *OfferService) Evaluate(ctx context.Context, code string, subtotal int64) (OfferEvaluation, error) {
	if subtotal < 0 {
		return OfferEvaluation{}, domain.NewValidationError("subtotal", "must be >= 0")
	}
	o, err := s.GetOfferByCode(ctx, code)
	if err != nil {
		return OfferEvaluation{}, err
	}
	ev := OfferEvaluation{Offer: o, Subtotal: subtotal, Discounted: subtotal}
	now := s.now()
	switch {
	case o.IsApplicable(subtotal, now):
		ev.Applicable = true
		ev.Discounted = o.Apply(subtotal)
	case !o.ActiveAt(now):
		ev.Reason = "offer is not valid at this time"
	default:
		ev.Reason = fmt.Sprintf("minimum booking amount is %d", o.MinBookingAmount)
	}
	return ev, nil
}
