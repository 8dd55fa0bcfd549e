package mailer

import (
	"context"
	"net/mail"
)

// EmailMessage carries a single outbound email.
type EmailMessage struct {
	To      []mail.Address
	Subject string
	Text    string
}

// Mailer delivers email synchronously. Send returns only after the
// provider accepted the message; the recovery flow persists temporary
// credentials only on confirmed delivery.
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Text != "" }
