package mailer

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"
)

// consoleMailer prints messages to the log. Used in development when
// no Sendgrid key is configured.
type consoleMailer struct {
	from          mail.Address
	subjPrefix    string
	disableOutput bool

	mu   sync.Mutex
	sent []EmailMessage
}

var _ Mailer = (*consoleMailer)(nil)

func NewConsoleMailer(from mail.Address, appName string) *consoleMailer {
	return &consoleMailer{
		from:       from,
		subjPrefix: "[" + appName + "] ",
	}
}

// NewMockMailer returns a mailer that records messages without output.
func NewMockMailer() *consoleMailer {
	return &consoleMailer{
		subjPrefix:    "[test] ",
		disableOutput: true,
	}
}

func (m *consoleMailer) Send(ctx context.Context, msg *EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return fmt.Errorf("message has no recipients or no content")
	}

	if !m.disableOutput {
		body := new(strings.Builder)
		fmt.Fprintf(body, "From: %s\r\n", m.from.String())
		fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
		fmt.Fprintf(body, "Subject: %s\r\n", m.subjPrefix+msg.Subject)
		fmt.Fprintf(body, "To: %s\r\n", m.joinAddresses(msg.To))
		fmt.Fprintf(body, "\r\n%s\r\n", msg.Text)
		log.Println(body.String())
	}

	m.mu.Lock()
	m.sent = append(m.sent, *msg)
	m.mu.Unlock()

	return nil
}

// SentMessages returns a copy of everything delivered so far.
func (m *consoleMailer) SentMessages() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *consoleMailer) joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
