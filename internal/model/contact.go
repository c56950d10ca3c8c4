package model

import "time"

// ContactRequest is a message from a prospective tenant to a listing owner.
type ContactRequest struct {
	ID        string     `db:"id" json:"id"`
	ListingID string     `db:"listing_id" json:"listingId"`
	SenderID  string     `db:"sender_id" json:"senderId"`
	OwnerID   string     `db:"owner_id" json:"ownerId"`
	Message   string     `db:"message" json:"message"`
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}
