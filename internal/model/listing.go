package model

import "time"

const (
	ListingPending  = "pending"
	ListingApproved = "approved"
	ListingRejected = "rejected"
)

type Listing struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"userId"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	ImageSrc      string     `db:"image_src" json:"imageSrc"`
	PhotoFileID   string     `db:"photo_file_id" json:"-"`
	Category      string     `db:"category" json:"category"`
	RoomCount     int        `db:"room_count" json:"roomCount"`
	BathroomCount int        `db:"bathroom_count" json:"bathroomCount"`
	GuestCount    int        `db:"guest_count" json:"guestCount"`
	LocationValue string     `db:"location_value" json:"locationValue"`
	Lat           *float64   `db:"lat" json:"lat,omitempty"`
	Lng           *float64   `db:"lng" json:"lng,omitempty"`
	LeaseStart    *time.Time `db:"lease_start_date" json:"leaseStartDate,omitempty"`
	LeaseEnd      *time.Time `db:"lease_end_date" json:"leaseEndDate,omitempty"`
	Price         int        `db:"price" json:"price"` // per night
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasCoordinates reports whether the listing can be placed on a map.
func (l *Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// ListingFilter mirrors the query parameters of the listings page.
type ListingFilter struct {
	UserID        string
	Category      string
	LocationValue string
	RoomCount     int
	GuestCount    int
	BathroomCount int
	MinPrice      int
	MaxPrice      int
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int

	// IncludeUnapproved also returns pending and rejected listings. Only set
	// for an owner looking at their own listings, or an admin.
	IncludeUnapproved bool
}
