// Package mail delivers verification-code emails over SMTP.
package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends verification codes through a plain-auth SMTP relay. It
// implements the service.CodeMailer interface.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendCode emails a one-time verification code. The call blocks until the
// relay accepts the message; callers treat a failure as fatal for the
// operation that needed the code delivered.
func (m *SMTPMailer) SendCode(code, recipient, subject string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("mail: recipient is required")
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"Your verification code is: " + code,
		"",
		"The code is valid for a single use. If you did not request it you can ignore this email.",
		"",
	}, "\r\n")

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: sending code email: %w", err)
	}
	return nil
}
