package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	appLog "github.com/LJablon/EduRent/internal/log"
)

// EmailClient sends one plain-text message.
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type SendGridClient struct {
	apiKey string
}

func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{apiKey: apiKey}
}

func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("EduRent", from),
		subject,
		sgmail.NewEmail("", to),
		body,
		htmlBody(body),
	)

	response, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	appLog.Debug("mail sent", "status", response.StatusCode, "to", to, "subject", subject)
	return nil
}

// htmlBody renders plain text as escaped preformatted HTML.
func htmlBody(body string) string {
	return "<pre>" + html.EscapeString(body) + "</pre>"
}

// LogClient writes messages to the log instead of sending them. Used when no
// SendGrid key is configured.
type LogClient struct{}

func (LogClient) Send(_ context.Context, from, to, subject, _ string) error {
	appLog.Info("mail not sent (no provider configured)", "from", from, "to", to, "subject", subject)
	return nil
}
