// Package mail notifies listing owners about contact requests.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LJablon/EduRent/internal/model"
)

// ContactMailer formats a contact request and hands it to an EmailClient.
type ContactMailer struct {
	client EmailClient
	from   string
}

func NewContactMailer(client EmailClient, from string) *ContactMailer {
	return &ContactMailer{client: client, from: from}
}

func (m *ContactMailer) SendContactRequest(
	ctx context.Context,
	owner model.User,
	sender model.User,
	listing model.Listing,
	req model.ContactRequest,
) error {
	subject := fmt.Sprintf("New inquiry about %q", listing.Title)
	return m.client.Send(ctx, m.from, strings.TrimSpace(owner.Email), subject, contactBody(sender, listing, req))
}

func contactBody(sender model.User, listing model.Listing, req model.ContactRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) is interested in your listing %q.\n\n", sender.Name, sender.Email, listing.Title)
	if req.StartDate != nil && req.EndDate != nil {
		fmt.Fprintf(&b, "Dates: %s to %s\n\n", req.StartDate.Format(time.DateOnly), req.EndDate.Format(time.DateOnly))
	}
	b.WriteString(strings.TrimSpace(req.Message))
	b.WriteString("\n\nReply to this person directly at ")
	b.WriteString(sender.Email)
	b.WriteString(".\n")
	return b.String()
}
