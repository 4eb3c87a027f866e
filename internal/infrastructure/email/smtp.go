package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tessera/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPInviteSender delivers organization invite notifications over SMTP.
type SMTPInviteSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

func NewSMTPInviteSender(config SMTPConfig, logger logger.Interface) *SMTPInviteSender {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPInviteSender{
		config: config,
		dialer: dialer,
		logger: logger,
	}
}

func (s *SMTPInviteSender) SendInvite(ctx context.Context, email, organizationName, inviterName string) error {
	subject := fmt.Sprintf("You've been added to %s", organizationName)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>You've been added to %s</h2>
			<p>%s added you to the organization <strong>%s</strong>.</p>
			<p>Sign in to your account to get started.</p>
			<p>If you weren't expecting this, you can ignore this email.</p>
		</body>
		</html>
	`, organizationName, inviterName, organizationName)

	plainBody := fmt.Sprintf(`
You've been added to %s

%s added you to the organization %s.

Sign in to your account to get started.

If you weren't expecting this, you can ignore this email.
	`, organizationName, inviterName, organizationName)

	return s.sendEmail(email, subject, htmlBody, plainBody)
}

func (s *SMTPInviteSender) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// NoopInviteSender is used when email delivery is disabled. It logs the
// invite instead of sending anything.
type NoopInviteSender struct {
	logger logger.Interface
}

func NewNoopInviteSender(logger logger.Interface) *NoopInviteSender {
	return &NoopInviteSender{logger: logger}
}

func (s *NoopInviteSender) SendInvite(ctx context.Context, email, organizationName, inviterName string) error {
	s.logger.Infow("email delivery disabled, skipping invite",
		"email", email,
		"organization", organizationName)
	return nil
}
