package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	mail "github.com/go-mail/mail"
	"github.com/microcosm-cc/bluemonday"

	"mailtrack/internal/config/configs"
	"mailtrack/internal/core/port"
)

// ErrNotConfigured is returned by Send when no relay credential is set.
var ErrNotConfigured = errors.New("smtp: username or password not configured")

// dialer abstracts mail.Dialer so tests can capture messages.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Sender implements port.MailSender over a single authenticated SMTP
// relay. Every call opens its own connection.
type Sender struct {
	cfg    configs.SMTP
	dialer dialer
	text   *bluemonday.Policy
	logger *slog.Logger
}

// NewSender builds a sender for cfg. The connection is not opened until
// Send is called.
func NewSender(cfg configs.SMTP, logger *slog.Logger) *Sender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	d.SSL = cfg.TLSMode == "ssl"
	d.StartTLSPolicy = mail.MandatoryStartTLS
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	return &Sender{
		cfg:    cfg,
		dialer: d,
		text:   bluemonday.StrictPolicy(),
		logger: logger.With(slog.String("component", "smtp"), slog.String("host", cfg.Host)),
	}
}

// Send delivers m as a multipart/alternative message with a plain text
// part derived from the HTML.
func (s *Sender) Send(ctx context.Context, m port.Mail) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := s.buildMessage(m)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	s.logger.Debug("mail sent", slog.String("to", m.To))
	return nil
}

// buildMessage assembles a multipart/alternative message.
func (s *Sender) buildMessage(m port.Mail) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", s.cfg.Sender())
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", s.plainText(m.HTML))
	msg.AddAlternative("text/html", m.HTML)
	return msg
}

// plainText strips all markup and collapses blank runs.
func (s *Sender) plainText(body string) string {
	text := html.UnescapeString(s.text.Sanitize(body))
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
