package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/vinhtqfx07044/laptop/internal/config"
	"go.uber.org/zap"
)

// Sender delivers a single composed email
type Sender interface {
	Send(to, subject, body string) error
}

// NewSender picks the delivery backend: real SMTP when mail is
// enabled, a log-only sender otherwise
func NewSender(cfg *config.MailConfig, logger *zap.Logger) Sender {
	if cfg.Enabled {
		return NewSMTPSender(cfg)
	}
	return &LogSender{logger: logger}
}

// SMTPSender delivers mail over plain SMTP with optional auth
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogSender logs composed emails instead of delivering them. Used in
// development and tests.
type LogSender struct {
	logger *zap.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.logger.Info("email (delivery disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
