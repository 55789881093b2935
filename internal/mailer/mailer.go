// Package mailer sends transactional email.
package mailer

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"tours-api/internal/config"
	"tours-api/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks tours-api/internal/mailer Sender

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	// ErrNoRecipient is returned for a message without a To address.
	ErrNoRecipient = errors.New("no recipient specified")
	// ErrNotConfigured is returned by the sender used when no relay is set
	// up outside development.
	ErrNotConfigured = errors.New("no SMTP relay configured")
)

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender for the configured relay.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send dials the relay and sends msg. gomail has no context support, so ctx
// is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(s.build(msg))
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
		if msg.Text != "" {
			m.AddAlternative("text/plain", msg.Text)
		}
	} else {
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// LogSender writes messages to the log instead of sending them. Used in
// development when no relay is configured.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.Component("mailer")}
}

// Send logs msg.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("email not sent, no SMTP relay configured")
	return nil
}

// unconfiguredSender fails every delivery. Message bodies carry reset links,
// so outside development they must never reach the log.
type unconfiguredSender struct{}

func (unconfiguredSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	return ErrNotConfigured
}

// New picks the SMTP sender when a relay is configured. Without one, mail is
// logged in development and refused everywhere else.
func New(cfg *config.Config, log *logger.Logger) Sender {
	if cfg.SMTPEnabled() {
		return NewSMTPSender(cfg.SMTP)
	}
	if cfg.IsDevelopment() {
		return NewLogSender(log)
	}
	log.Component("mailer").Warn().Msg("SMTP_HOST is not set, outgoing email will fail")
	return unconfiguredSender{}
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*LogSender)(nil)
	_ Sender = unconfiguredSender{}
)
