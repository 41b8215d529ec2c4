// Package email delivers account and reservation decision notices over SMTP.
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendAccountDecision(toEmail, toName string, approved bool, reason string) error
	SendReservationDecision(toEmail, toName, resource, date, start string, approved bool, reason string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendAccountDecision notifies a user that their registration was approved or
// rejected.
func (s *EmailServiceImpl) SendAccountDecision(toEmail, toName string, approved bool, reason string) error {
	// If credentials are not configured, log and skip (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Bool("approved", approved).
			Msg("SMTP credentials not configured - account decision email not sent")
		return nil
	}

	var subject, body string
	if approved {
		subject = "Bem-vindo ao Coordena+!"
		body = fmt.Sprintf("Olá, %s!\n\nSeu cadastro foi aprovado. Você já pode acessar o sistema.\n\n— Coordena+", toName)
	} else {
		subject = "Cadastro rejeitado no Coordena+"
		body = fmt.Sprintf("Olá, %s!\n\nSeu cadastro foi rejeitado.", toName)
		if reason != "" {
			body += fmt.Sprintf("\nMotivo: %s", reason)
		}
		body += "\n\n— Coordena+"
	}

	return s.sendTextEmail(toEmail, subject, body)
}

// SendReservationDecision notifies the responsible party that a reservation
// was approved or rejected.
func (s *EmailServiceImpl) SendReservationDecision(toEmail, toName, resource, date, start string, approved bool, reason string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Bool("approved", approved).
			Msg("SMTP credentials not configured - reservation decision email not sent")
		return nil
	}

	var subject, body string
	if approved {
		subject = fmt.Sprintf("Reserva aprovada em %s", date)
		body = fmt.Sprintf("Olá, %s!\n\nSua reserva para %s em %s às %s foi aprovada.\n\n— Coordena+", toName, resource, date, start)
	} else {
		subject = fmt.Sprintf("Reserva rejeitada em %s", date)
		body = fmt.Sprintf("Olá, %s!\n\nSua reserva para %s em %s às %s foi rejeitada.", toName, resource, date, start)
		if reason != "" {
			body += fmt.Sprintf("\nMotivo: %s", reason)
		}
		body += "\n\n— Coordena+"
	}

	return s.sendTextEmail(toEmail, subject, body)
}

// sendTextEmail sends a plain-text email
func (s *EmailServiceImpl) sendTextEmail(toEmail, subject, textBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/plain; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + textBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	// Plain connection with STARTTLS negotiated by the library when offered
	err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message))
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
