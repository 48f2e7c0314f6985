package service

import "context"

// Notifier sends transactional account emails. Implementations live in
// internal/platform/mail; a no-op implementation is used when SMTP is
// not configured.
type Notifier interface {
	// SendWelcome sends the signup email to a freshly registered user.
	SendWelcome(ctx context.Context, email, name string) error

	// SendCancellation sends the goodbye email after account deletion.
	SendCancellation(ctx context.Context, email, name string) error
}
