package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/model"
)

// ContactInput is what a prospective tenant sends to a listing owner.
type ContactInput struct {
	Message   string
	StartDate *time.Time
	EndDate   *time.Time
}

// ContactService delivers messages to listing owners. It never books
// anything.
type ContactService struct {
	listings ListingStore
	users    UserStore
	contacts ContactStore
	mailer   ContactMailer
	now      func() time.Time
	newID    func() string
}

func NewContactService(ls ListingStore, us UserStore, cs ContactStore, mailer ContactMailer) *ContactService {
	return &ContactService{
		listings: ls,
		users:    us,
		contacts: cs,
		mailer:   mailer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores the request and mails the owner. A mail failure is logged and
// does not fail the request; the message is kept in contact_requests.
func (s *ContactService) Create(ctx context.Context, senderID, listingID string, in ContactInput) (*model.ContactRequest, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ContactService.Create: %w", notFound(err, ErrListingNotFound))
	}
	if l.UserID == senderID {
		return nil, ErrSelfContact
	}

	req := &model.ContactRequest{
		ID:        s.newID(),
		ListingID: l.ID,
		SenderID:  senderID,
		OwnerID:   l.UserID,
		Message:   msg,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contacts.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("ContactService.Create: insert: %w", missingUser(err))
	}

	s.notifyOwner(ctx, l, req)
	return req, nil
}

func (s *ContactService) notifyOwner(ctx context.Context, l *model.Listing, req *model.ContactRequest) {
	owner, err := s.users.GetByID(ctx, l.UserID)
	if err != nil {
		appLog.Error("contact owner lookup failed", err, "listing_id", l.ID, "owner_id", l.UserID)
		return
	}
	sender, err := s.users.GetByID(ctx, req.SenderID)
	if err != nil {
		appLog.Error("contact sender lookup failed", err, "sender_id", req.SenderID)
		return
	}
	if err := s.mailer.SendContactRequest(ctx, *owner, *sender, *l, *req); err != nil {
		appLog.Error("contact mail failed", err, "contact_id", req.ID, "listing_id", l.ID)
		return
	}
	appLog.Debug("contact mail sent", "contact_id", req.ID)
}
