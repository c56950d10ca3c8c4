package model

import "time"

type Reservation struct {
	ID         string    `db:"id" json:"id"`
	ListingID  string    `db:"listing_id" json:"listingId"`
	UserID     string    `db:"user_id" json:"userId"`
	StartDate  time.Time `db:"start_date" json:"startDate"`
	EndDate    time.Time `db:"end_date" json:"endDate"`
	TotalPrice int       `db:"total_price" json:"totalPrice"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// ReservationFilter selects reservations by guest, listing or listing owner.
// At least one field is expected to be set.
type ReservationFilter struct {
	UserID    string
	ListingID string
	OwnerID   string
}
