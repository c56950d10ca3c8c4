package service

import (
	"context"
	"time"

	"github.com/LJablon/EduRent/internal/model"
)

// The interfaces below are satisfied by the repository, cache and mail
// packages; tests substitute in-memory versions.

type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id string) error
	GetFiltered(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	GetPending(ctx context.Context, limit, offset int) ([]model.Listing, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
}

type ReservationStore interface {
	Create(ctx context.Context, rv *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	Delete(ctx context.Context, id string) error
	FindByListing(ctx context.Context, listingID string) ([]model.Reservation, error)
	Find(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type ContactStore interface {
	Create(ctx context.Context, c *model.ContactRequest) error
}

type AvailabilityCache interface {
	Get(ctx context.Context, listingID string) ([]time.Time, bool, error)
	Set(ctx context.Context, listingID string, days []time.Time) error
	Invalidate(ctx context.Context, listingID string) error
}

type ContactMailer interface {
	SendContactRequest(ctx context.Context, owner, sender model.User, listing model.Listing, req model.ContactRequest) error
}
