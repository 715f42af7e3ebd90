// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/event-ticketing/internal/config"
)

// Attachment is a file attached to a message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is one outgoing email with an HTML body.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTPSender for cfg, or a LogSender when no SMTP host is
// configured.
func New(cfg config.MailConfig) Sender {
	if cfg.Host == "" {
		return LogSender{}
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.SSL = cfg.SSL
	return &SMTPSender{dialer: d, from: cfg.From}
}

// Send builds and delivers msg.  The SMTP client has no context support,
// so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
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
	m.SetBody("text/html", msg.HTML)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return m
}

// LogSender logs messages instead of sending them.  It is used in
// development when SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Int("attachments", len(msg.Attachments)).
		Msg("mail not sent: SMTP not configured")
	return nil
}
