package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"sync/atomic"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridMailer struct {
	key        string
	from       []*sgmail.Email
	next       atomic.Uint64
	subjPrefix string
}

var _ Mailer = (*sendgridMailer)(nil)

// NewSendgridMailer creates a Sendgrid-backed mailer. Sender
// identities rotate round-robin across the configured from addresses
// to spread provider rate limits.
func NewSendgridMailer(apiKey string, from []mail.Address, appName string) (*sendgridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if len(from) == 0 {
		return nil, fmt.Errorf("at least one sender identity is required")
	}

	senders := make([]*sgmail.Email, len(from))
	for i, f := range from {
		senders[i] = sgmail.NewEmail(f.Name, f.Address)
	}

	return &sendgridMailer{
		key:        apiKey,
		from:       senders,
		subjPrefix: "[" + appName + "] ",
	}, nil
}

func (m *sendgridMailer) Send(ctx context.Context, msg *EmailMessage) error {
	if !msg.HasRecipients() || !msg.HasContent() {
		return fmt.Errorf("message has no recipients or no content")
	}

	req := sendgrid.GetRequest(m.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}

func (m *sendgridMailer) prepare(msg *EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject

	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	out := sgmail.NewV3Mail()
	out.SetFrom(m.sender())
	out.AddPersonalizations(p)
	out.AddContent(sgmail.NewContent("text/plain", msg.Text))

	return out
}

func (m *sendgridMailer) sender() *sgmail.Email {
	idx := m.next.Add(1) - 1
	return m.from[idx%uint64(len(m.from))]
}
