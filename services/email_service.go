package services

import (
	"fmt"
	"html"
	"log/slog"

	"board-api/config"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService sends transactional mail over SMTP. It is disabled when no SMTP host is
// configured, in which case sends are skipped.
type EmailService struct {
	config *config.Config
	sender mailSender
	logger *slog.Logger
}

func NewEmailService(cfg *config.Config, logger *slog.Logger) *EmailService {
	service := &EmailService{config: cfg, logger: logger}
	if cfg.SMTPHost != "" {
		service.sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return service
}

func (es *EmailService) Enabled() bool {
	return es.sender != nil
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(email, username string) error {
	if !es.Enabled() {
		es.logger.Debug("smtp not configured, skipping welcome email", "to", email)
		return nil
	}

	if err := es.sender.DialAndSend(es.welcomeMessage(email, username)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	es.logger.Info("welcome email sent", "to", email)
	return nil
}

func (es *EmailService) welcomeMessage(email, username string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", es.config.FromEmail, es.config.FromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to the board")

	textBody := fmt.Sprintf(`Hello %s!

Your account is ready. You can now write posts, comment on discussions and like what you enjoy.

This is an automated email, please do not reply.
`, username)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Welcome</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Hello %s!</h2>
    <p>Your account is ready. You can now write posts, comment on discussions and like what you enjoy.</p>
    <p style="color: #666; font-size: 14px;">This is an automated email, please do not reply.</p>
</body>
</html>`, html.EscapeString(username))

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
