// Package service implements the application's use cases on top of the
// store interfaces: account lifecycle, session management, avatar
// handling and task CRUD.
package service

import (
	"fmt"

	"github.com/tthornvik/task-api/internal/domain"
)

// Service-level errors.
var (
	// ErrUnableToLogin is returned for every authentication failure during
	// login, whether the account does not exist or the password is wrong.
	// A single message avoids confirming which emails are registered.
	ErrUnableToLogin = fmt.Errorf("%w: unable to login", domain.ErrUnauthorized)

	// ErrAvatarTooLarge is returned when an uploaded avatar exceeds
	// MaxAvatarBytes.
	ErrAvatarTooLarge = fmt.Errorf("%w: avatar must be at most 1MB", domain.ErrValidation)

	// ErrUnsupportedAvatarFormat is returned when an uploaded avatar is not
	// a JPEG or PNG image.
	ErrUnsupportedAvatarFormat = fmt.Errorf(
		"%w: avatar must be a JPEG or PNG image", domain.ErrValidation)
)
