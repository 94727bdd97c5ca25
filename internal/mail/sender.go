// Package mail implements the outbound notification sender on top of SMTP.
// The service layer depends on its own Sender interface; this package provides
// the production implementation and a logging fallback for local development.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers plain-text mail through a configured SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender constructs an SMTPSender. Credentials may be empty for an
// unauthenticated relay (e.g. a local mailhog during development).
func NewSMTPSender(host string, port int, username, password, from string) (*SMTPSender, error) {
	opts := []gomail.Option{gomail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail.NewSMTPSender: %w", err)
	}
	return &SMTPSender{client: client, from: from}, nil
}

// Send delivers one message. The context bounds the whole SMTP conversation,
// so a caller-supplied timeout caps how long a slow relay can stall us.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: %w", err)
	}
	return nil
}

// LogSender is the no-op fallback used when no SMTP host is configured.
// It logs instead of delivering so reminder sweeps still complete locally.
type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.Log.Info("mail delivery skipped (no SMTP configured)", "to", to, "subject", subject)
	return nil
}
