package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"keyword-shortener/config"
)

// Service delivers notification emails over SMTP. With Enabled false it
// only logs the message, which keeps development setups working without a
// mail server.
type Service struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
	operator string
	enabled  bool
}

func NewService(cfg config.SMTPConfig) *Service {
	return &Service{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		operator: cfg.OperatorEmail,
		enabled:  cfg.Enabled,
	}
}

// OperatorAddress is the fixed recipient for contact-form notifications.
func (s *Service) OperatorAddress() string {
	return s.operator
}

// SendContactMessage formats a contact-form submission and sends it to the
// operator address.
func (s *Service) SendContactMessage(name, replyTo, message string) error {
	subject := "New Contact Form Submission"
	body := fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", name, replyTo, message)
	return s.Send(subject, body, s.operator)
}

// Send delivers a plain-text email to recipient. The transport error is
// returned as-is for the caller to present.
func (s *Service) Send(subject, body, recipient string) error {
	if !s.enabled {
		log.Warn().
			Str("to", recipient).
			Str("subject", subject).
			Msg("Email service disabled - message not sent")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.from)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, recipient, subject, body,
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{recipient}, msg); err != nil {
		log.Error().Err(err).Str("to", recipient).Msg("Failed to send email")
		return err
	}

	log.Info().Str("to", recipient).Str("subject", subject).Msg("Email sent successfully")
	return nil
}
