// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Send when no SMTP host is set.
var ErrNotConfigured = errors.New("mail is not configured")

// Config holds the configuration for creating a Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends emails via SMTP.
type Mailer struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	log  *zap.Logger
}

// New creates a new Mailer with the given configuration.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail, log: log}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

// Email represents an email to be sent.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Send sends an email. With an HTMLBody the message is multipart with
// both plain text and HTML parts.
func (m *Mailer) Send(email Email) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}

	msg := m.compose(email, randomBoundary)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{email.To}, msg); err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}

func (m *Mailer) compose(email Email, boundary func() string) []byte {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	if email.ReplyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", email.ReplyTo)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody == "" {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.TextBody)
		return msg.Bytes()
	}

	b := boundary()
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", b)
	part := func(contentType, body string) {
		fmt.Fprintf(&msg, "--%s\r\n", b)
		fmt.Fprintf(&msg, "Content-Type: %s; charset=UTF-8\r\n\r\n", contentType)
		msg.WriteString(body)
		msg.WriteString("\r\n")
	}
	part("text/plain", email.TextBody)
	part("text/html", email.HTMLBody)
	fmt.Fprintf(&msg, "--%s--\r\n", b)
	return msg.Bytes()
}

// randomBoundary generates a random boundary string for multipart emails.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "----=_Part_" + hex.EncodeToString(b)
}
