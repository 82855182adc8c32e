package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends transactional mail. The auth service only needs the
// password reset message.
type Mailer interface {
	SendPasswordReset(toEmail, username, resetURL string) error
}

// SendGridMailer delivers mail through the SendGrid API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridMailer creates a mailer backed by SendGrid.
func NewSendGridMailer(apiKey, fromAddress string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Notes", fromAddress),
	}
}

// SendPasswordReset mails a reset link to the user.
func (m *SendGridMailer) SendPasswordReset(toEmail, username, resetURL string) error {
	to := mail.NewEmail(username, toEmail)
	subject := "Reset your password"
	plain := fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in one hour.\n\n%s\n\nIf you did not request this, you can ignore this email.", username, resetURL)
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Use the link below to reset your password. It expires in one hour.</p><p><a href="%s">Reset password</a></p><p>If you did not request this, you can ignore this email.</p>`, username, resetURL)

	message := mail.NewSingleEmail(m.from, subject, to, plain, html)
	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected reset mail: status %d", response.StatusCode)
	}
	return nil
}

// LogMailer is used when no SendGrid key is configured; it logs the
// reset link instead of sending it.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendPasswordReset logs the reset link.
func (m *LogMailer) SendPasswordReset(toEmail, username, resetURL string) error {
	m.logger.Info("password reset requested (mail not configured)",
		zap.String("email", toEmail),
		zap.String("reset_url", resetURL),
	)
	return nil
}
