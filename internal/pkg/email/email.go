package email

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// Sender defines the interface for outbound email delivery.
type Sender interface {
	Send(toEmail, toName, subject, htmlBody string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPSender implements Sender over plain SMTP with auth.
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTP-backed sender.
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{config: config, logger: logger}
}

// Send delivers a single message. When SMTP credentials are not configured the
// message is logged instead so development environments work without a mail server.
func (s *SMTPSender) Send(toEmail, toName, subject, htmlBody string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email logged instead of sent")
		return nil
	}

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	message += fmt.Sprintf("To: %s <%s>\r\n", toName, toEmail)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n" + htmlBody

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

// ConsoleSender writes messages to the log. Used in tests and local setups.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a log-only sender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(toEmail, toName, subject, htmlBody string) error {
	s.logger.Info().
		Str("toEmail", toEmail).
		Str("toName", toName).
		Str("subject", subject).
		Msg("Console email sender")
	return nil
}
