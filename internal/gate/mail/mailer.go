// Package mail delivers verification codes. The dispatcher is deliberately
// thin: render a message, hand it to a provider, report success or failure.
// Retries are the caller's problem because the code record stays valid after
// a failed send.
package mail

import (
	"context"
	"fmt"
)

// Mailer sends a rendered message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// SESConfig holds credentials for the AWS SES provider.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SMTPConfig holds settings for a plain SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Config selects and configures a provider. Provider is one of
// "ses", "smtp", or "noop".
type Config struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
	SMTP        SMTPConfig
}

// NewMailer builds a Mailer from config. The "noop" provider logs instead of
// sending and is the default for local development.
func NewMailer(cfg Config) (Mailer, error) {
	switch cfg.Provider {
	case "ses":
		return newSESMailer(cfg)
	case "smtp":
		return newSMTPMailer(cfg)
	case "", "noop":
		return &noopMailer{}, nil
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}

func fromHeader(cfg Config) string {
	if cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return cfg.FromAddress
}
