package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/Tushar-Jain07/portfolio/internal/config"
)

var (
	errMailNotConfigured = errors.New("SMTP credentials not configured")
	errContactInvalid    = errors.New("invalid contact form")
)

// maxMessageLen caps the contact message body.
const maxMessageLen = 5000

type contactMessage struct {
	Name    string
	Email   string
	Message string
}

func (m *contactMessage) validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)

	switch {
	case m.Name == "" || m.Email == "" || m.Message == "":
		return fmt.Errorf("%w: please fill in your name, email and message", errContactInvalid)
	case strings.ContainsAny(m.Name, "\r\n"):
		return fmt.Errorf("%w: name must be a single line", errContactInvalid)
	case len(m.Message) > maxMessageLen:
		return fmt.Errorf("%w: message is too long", errContactInvalid)
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil {
		return fmt.Errorf("%w: please enter a valid email address", errContactInvalid)
	}
	m.Email = addr.Address
	return nil
}

type mailer interface {
	Send(ctx context.Context, msg contactMessage) error
}

// smtpMailer sends contact form messages through an SMTP relay.
type smtpMailer struct {
	cfg config.SMTPConfig
}

func (s smtpMailer) Send(_ context.Context, msg contactMessage) error {
	if !s.cfg.Configured() {
		return errMailNotConfigured
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	err := smtp.SendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.User, []string{s.cfg.ToEmail}, composeMail(s.cfg, msg))
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func composeMail(cfg config.SMTPConfig, msg contactMessage) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + cfg.ToEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
