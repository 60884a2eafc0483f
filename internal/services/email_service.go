package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email string) error
	Send2FAEnabledEmail(email string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to SecureLogin!")

	body := `
		<h2>Welcome to SecureLogin!</h2>
		<p>Your account has been successfully created.</p>
		<p>We recommend enabling two-factor authentication in your account settings.</p>
		<p>Best regards,<br>The SecureLogin Team</p>
	`
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) Send2FAEnabledEmail(email string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Two-factor authentication enabled")

	body := `
                <h3>Two-factor authentication is now active</h3>
                <p>From now on, signing in to your account requires a code from your authenticator app.</p>
                <p>If you did not enable this, contact support immediately.</p>
        `
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send 2FA notice: %w", err)
	}

	return nil
}
