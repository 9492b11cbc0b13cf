package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func newSMTPMailer(cfg Config) (*smtpMailer, error) {
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("mail: smtp provider requires a host")
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password),
		from:   fromHeader(cfg),
	}, nil
}

// Send delivers via SMTP in a goroutine so the context deadline is honored;
// gomail itself has no context support.
func (s *smtpMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	if html != "" {
		m.AddAlternative("text/html", html)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to send email via SMTP: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
