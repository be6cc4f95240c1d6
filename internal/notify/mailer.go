// Package notify sends transactional email. Delivery is best-effort
// everywhere: callers log failures, they never roll back the operation that
// triggered the mail.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends plain-text mail through a single SMTP account.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (s SMTP) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.User),
		mail.WithPassword(s.Pass),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// Disabled is the mailer used when SMTP is not configured. Every send
// "fails" with a descriptive error, which the best-effort callers log.
type Disabled struct{}

func (Disabled) Send(_ context.Context, to, _, _ string) error {
	return fmt.Errorf("mail disabled, dropping message to %s", to)
}
