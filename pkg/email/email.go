package email

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned when no SMTP host has been set.
var ErrNotConfigured = errors.New("email: smtp host not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured.
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != ""
}

// SendHTML sends an already rendered HTML document, such as a receipt.
func (s *EmailService) SendHTML(toEmail, subject, htmlBody string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if strings.ContainsAny(toEmail, "\r\n") {
		return fmt.Errorf("email: invalid recipient %q", toEmail)
	}
	message := s.buildHTMLEmail(toEmail, subject, htmlBody)
	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		mime.QEncoding.Encode("utf-8", s.config.FromName),
		s.config.FromEmail,
		to,
		mime.QEncoding.Encode("utf-8", subject),
	)

	return []byte(headers + htmlBody)
}
