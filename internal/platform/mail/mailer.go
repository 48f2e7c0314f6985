// Package mail contains the SMTP-backed implementation of the
// notification sender used for account lifecycle emails.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/go-mail/mail/v2"

	"github.com/tthornvik/task-api/internal/config"
	"github.com/tthornvik/task-api/internal/platform/logger"
)

// dialTimeout bounds a single SMTP delivery attempt. Notifications are
// fire-and-forget, so a hanging provider must not pin goroutines.
const dialTimeout = 10 * time.Second

// SMTPNotifier sends transactional account emails over SMTP.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	sender string
	logger *slog.Logger
}

// NewSMTPNotifier creates an SMTPNotifier from the mail configuration.
// If logger is nil, a default logger will be used.
func NewSMTPNotifier(cfg config.MailConfig, logger *slog.Logger) *SMTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = dialTimeout

	return &SMTPNotifier{
		dialer: dialer,
		sender: cfg.Sender,
		logger: logger.With(slog.String("component", "smtp_notifier")),
	}
}

// SendWelcome sends the signup email. A single delivery attempt is made;
// callers treat failures as best-effort.
func (n *SMTPNotifier) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Thanks for joining"
	body := fmt.Sprintf("Thank you for joining, %s. Get started by creating your first task.", name)
	return n.send(ctx, email, subject, body)
}

// SendCancellation sends the account-deletion email.
func (n *SMTPNotifier) SendCancellation(ctx context.Context, email, name string) error {
	subject := "Sorry to see you go"
	body := fmt.Sprintf(
		"It is sad to see you leaving us, %s. We hope you find what you are looking for.",
		name,
	)
	return n.send(ctx, email, subject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContextOrDefault(ctx, n.logger)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send %q mail: %w", subject, err)
	}

	log.Debug("notification mail sent", slog.String("subject", subject))
	return nil
}

// NoopNotifier satisfies the notification interface without sending
// anything. It is used when no SMTP settings are configured, typically
// in development and tests.
type NoopNotifier struct {
	logger *slog.Logger
}

// NewNoopNotifier creates a NoopNotifier.
func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopNotifier{
		logger: logger.With(slog.String("component", "noop_notifier")),
	}
}

// SendWelcome implements the notifier contract as a no-op.
func (n *NoopNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.logger.Debug("mail disabled, skipping welcome notification")
	return nil
}

// SendCancellation implements the notifier contract as a no-op.
func (n *NoopNotifier) SendCancellation(ctx context.Context, email, name string) error {
	n.logger.Debug("mail disabled, skipping cancellation notification")
	return nil
}
