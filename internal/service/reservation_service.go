package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LJablon/EduRent/internal/availability"
	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/pricing"
)

// ReservationService books and cancels stays.
type ReservationService struct {
	listings     ListingStore
	reservations ReservationStore
	cache        AvailabilityCache
	estimator    pricing.Estimator
	now          func() time.Time
	newID        func() string
}

func NewReservationService(
	ls ListingStore,
	rs ReservationStore,
	cache AvailabilityCache,
	estimator pricing.Estimator,
) *ReservationService {
	if estimator == nil {
		estimator = pricing.NightlyEstimator{}
	}
	return &ReservationService{
		listings:     ls,
		reservations: rs,
		cache:        cache,
		estimator:    estimator,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Create books r for userID. The stored total is computed here from the
// listing's nightly price; a differing clientTotal is only logged.
func (s *ReservationService) Create(
	ctx context.Context,
	userID, listingID string,
	r model.DateRange,
	clientTotal int,
) (*model.Reservation, error) {
	if r.StartDate.IsZero() || r.EndDate.IsZero() || r.EndDate.Before(r.StartDate) {
		return nil, ErrInvalidDateRange
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReservationService.Create: %w", notFound(err, ErrListingNotFound))
	}
	if l.Status != model.ListingApproved {
		return nil, ErrListingNotBookable
	}

	existing, err := s.reservations.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReservationService.Create: find reservations: %w", err)
	}
	if availability.FromReservations(existing).Overlaps(r) {
		return nil, ErrDatesUnavailable
	}

	total := s.estimator.Estimate(r, l.Price)
	if clientTotal != 0 && clientTotal != total {
		appLog.Info("client total differs from computed total",
			"listing_id", listingID, "client", clientTotal, "computed", total)
	}

	rv := &model.Reservation{
		ID:         s.newID(),
		ListingID:  listingID,
		UserID:     userID,
		StartDate:  availability.Day(r.StartDate),
		EndDate:    availability.Day(r.EndDate),
		TotalPrice: total,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.reservations.Create(ctx, rv); err != nil {
		return nil, fmt.Errorf("ReservationService.Create: insert: %w", missingUser(err))
	}
	s.invalidate(ctx, listingID)

	appLog.Info("reservation created", "reservation_id", rv.ID, "listing_id", listingID, "user_id", userID)
	return rv, nil
}

func (s *ReservationService) List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	list, err := s.reservations.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ReservationService.List: %w", err)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return list, nil
}

func (s *ReservationService) ListForListing(ctx context.Context, listingID string) ([]model.Reservation, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, fmt.Errorf("ReservationService.ListForListing: %w", notFound(err, ErrListingNotFound))
	}
	list, err := s.reservations.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReservationService.ListForListing: %w", err)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return list, nil
}

// Cancel removes a reservation. Only the guest who made it or the owner of
// the listing may cancel.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID string) error {
	rv, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("ReservationService.Cancel: %w", notFound(err, ErrReservationNotFound))
	}

	if rv.UserID != userID {
		l, err := s.listings.GetByID(ctx, rv.ListingID)
		if err != nil {
			return fmt.Errorf("ReservationService.Cancel: %w", notFound(err, ErrListingNotFound))
		}
		if l.UserID != userID {
			return ErrForbidden
		}
	}

	if err := s.reservations.Delete(ctx, reservationID); err != nil {
		return fmt.Errorf("ReservationService.Cancel: %w", notFound(err, ErrReservationNotFound))
	}
	s.invalidate(ctx, rv.ListingID)
	return nil
}

func (s *ReservationService) invalidate(ctx context.Context, listingID string) {
	if err := s.cache.Invalidate(ctx, listingID); err != nil {
		appLog.Error("availability cache invalidate failed", err, "listing_id", listingID)
	}
}
