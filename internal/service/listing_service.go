package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LJablon/EduRent/internal/availability"
	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/model"
	"github.com/LJablon/EduRent/internal/pricing"
	"github.com/LJablon/EduRent/internal/repository"
)

// ListingInput carries the owner-editable fields of a listing.
type ListingInput struct {
	Title         string
	Description   string
	ImageSrc      string
	Category      string
	RoomCount     int
	BathroomCount int
	GuestCount    int
	LocationValue string
	Lat           *float64
	Lng           *float64
	LeaseStart    *time.Time
	LeaseEnd      *time.Time
	Price         int
}

// ListingDetail is everything the listing page shows.
type ListingDetail struct {
	Listing       model.Listing       `json:"listing"`
	Owner         *model.User         `json:"owner,omitempty"`
	Reservations  []model.Reservation `json:"reservations"`
	DisabledDates []string            `json:"disabledDates"`
}

// Quote is the price of a stay as shown before booking.
type Quote struct {
	ListingID    string `json:"listingId"`
	Nights       int    `json:"nights"`
	NightlyPrice int    `json:"nightlyPrice"`
	TotalPrice   int    `json:"totalPrice"`
}

type ListingService struct {
	listings     ListingStore
	reservations ReservationStore
	users        UserStore
	cache        AvailabilityCache
	estimator    pricing.Estimator
	now          func() time.Time
	newID        func() string
}

func NewListingService(
	ls ListingStore,
	rs ReservationStore,
	us UserStore,
	cache AvailabilityCache,
) *ListingService {
	return &ListingService{
		listings:     ls,
		reservations: rs,
		users:        us,
		cache:        cache,
		estimator:    pricing.NightlyEstimator{},
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Create stores a new listing owned by ownerID. New listings wait for
// moderation before they show up in searches.
func (s *ListingService) Create(ctx context.Context, ownerID string, in ListingInput) (*model.Listing, error) {
	if err := validateLease(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	l := &model.Listing{
		ID:        s.newID(),
		UserID:    ownerID,
		Status:    model.ListingPending,
		CreatedAt: now,
	}
	applyListingInput(l, in, now)

	if err := s.listings.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("ListingService.Create: %w", missingUser(err))
	}
	return l, nil
}

func (s *ListingService) Update(ctx context.Context, ownerID, id string, in ListingInput) (*model.Listing, error) {
	if err := validateLease(in); err != nil {
		return nil, err
	}
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != ownerID {
		return nil, ErrForbidden
	}
	applyListingInput(l, in, s.now().UTC())

	if err := s.listings.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("ListingService.Update: %w", notFound(err, ErrListingNotFound))
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, ownerID, id string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != ownerID {
		return ErrForbidden
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("ListingService.Delete: %w", notFound(err, ErrListingNotFound))
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ListingService.Get: %w", notFound(err, ErrListingNotFound))
	}
	return l, nil
}

// pageBounds falls back to the first page of ten for a missing or negative
// limit and offset.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *ListingService) Search(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	f.Limit, f.Offset = pageBounds(f.Limit, f.Offset)
	list, err := s.listings.GetFiltered(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ListingService.Search: %w", err)
	}
	if list == nil {
		list = []model.Listing{}
	}
	return list, nil
}

// Detail loads the listing with its owner and reservations. A missing owner
// record is tolerated; the page renders without owner info.
func (s *ListingService) Detail(ctx context.Context, id string) (*ListingDetail, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.FindByListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ListingService.Detail: %w", err)
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}

	d := &ListingDetail{
		Listing:       *l,
		Reservations:  reservations,
		DisabledDates: availability.FormatDays(availability.DisabledDates(reservations)),
	}

	owner, err := s.users.GetByID(ctx, l.UserID)
	switch {
	case err == nil:
		d.Owner = owner
	case errors.Is(err, sql.ErrNoRows):
		appLog.Debug("listing owner missing", "listing_id", id, "user_id", l.UserID)
	default:
		return nil, fmt.Errorf("ListingService.Detail: %w", err)
	}
	return d, nil
}

// Availability returns the days already taken for a listing, via the cache
// when possible. Cache failures only cost a database read.
func (s *ListingService) Availability(ctx context.Context, id string) ([]time.Time, error) {
	if days, ok, err := s.cache.Get(ctx, id); err != nil {
		appLog.Error("availability cache read failed", err, "listing_id", id)
	} else if ok {
		return days, nil
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	reservations, err := s.reservations.FindByListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ListingService.Availability: %w", err)
	}
	days := availability.DisabledDates(reservations)

	if err := s.cache.Set(ctx, id, days); err != nil {
		appLog.Error("availability cache write failed", err, "listing_id", id)
	}
	return days, nil
}

func (s *ListingService) Quote(ctx context.Context, id string, r model.DateRange) (*Quote, error) {
	if r.EndDate.Before(r.StartDate) {
		return nil, ErrInvalidDateRange
	}
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Quote{
		ListingID:    l.ID,
		Nights:       pricing.NightsBetween(r.StartDate, r.EndDate),
		NightlyPrice: l.Price,
		TotalPrice:   s.estimator.Estimate(r, l.Price),
	}, nil
}

func (s *ListingService) Pending(ctx context.Context, limit, offset int) ([]model.Listing, error) {
	limit, offset = pageBounds(limit, offset)
	list, err := s.listings.GetPending(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListingService.Pending: %w", err)
	}
	if list == nil {
		list = []model.Listing{}
	}
	return list, nil
}

func (s *ListingService) Approve(ctx context.Context, id string) error {
	if err := s.listings.Approve(ctx, id); err != nil {
		return fmt.Errorf("ListingService.Approve: %w", notFound(err, ErrListingNotFound))
	}
	return nil
}

func (s *ListingService) Reject(ctx context.Context, id string) error {
	if err := s.listings.Reject(ctx, id); err != nil {
		return fmt.Errorf("ListingService.Reject: %w", notFound(err, ErrListingNotFound))
	}
	return nil
}

func (s *ListingService) invalidate(ctx context.Context, listingID string) {
	if err := s.cache.Invalidate(ctx, listingID); err != nil {
		appLog.Error("availability cache invalidate failed", err, "listing_id", listingID)
	}
}

func applyListingInput(l *model.Listing, in ListingInput, now time.Time) {
	l.Title = in.Title
	l.Description = in.Description
	l.ImageSrc = in.ImageSrc
	l.Category = in.Category
	l.RoomCount = in.RoomCount
	l.BathroomCount = in.BathroomCount
	l.GuestCount = in.GuestCount
	l.LocationValue = in.LocationValue
	l.Lat = in.Lat
	l.Lng = in.Lng
	l.LeaseStart = in.LeaseStart
	l.LeaseEnd = in.LeaseEnd
	l.Price = in.Price
	l.UpdatedAt = now
}

func validateLease(in ListingInput) error {
	if in.LeaseStart != nil && in.LeaseEnd != nil && in.LeaseEnd.Before(*in.LeaseStart) {
		return ErrInvalidDateRange
	}
	return nil
}

// notFound replaces sql.ErrNoRows with the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// missingUser maps a write that referenced an unprovisioned user.
func missingUser(err error) error {
	if errors.Is(err, repository.ErrUnknownReference) {
		return ErrUserNotFound
	}
	return err
}
