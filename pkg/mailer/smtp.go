package mailer

import (
	"fmt"
	"net/smtp"
	"os"

	"go.uber.org/zap"
)

// Mailer sends a single message to a single recipient. The notification
// dispatcher calls it once per admin so one failed recipient never blocks
// the others.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	log      *zap.Logger
}

// NewSMTPMailer reads SMTP_* settings from the environment.
func NewSMTPMailer(log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		log:      log,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	if m.host == "" {
		// No SMTP configured: log the message instead of failing every dispatch.
		m.log.Info("smtp not configured, skipping email",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}
