package util

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrContentNotFound      = fmt.Errorf("content %w", ErrNotFound)
	ErrQuestionNotFound     = fmt.Errorf("question %w", ErrNotFound)
	ErrCommentNotFound      = fmt.Errorf("comment %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrMilestoneNotFound    = fmt.Errorf("milestone %w", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("%w: account is not active", ErrUnauthorized)

	ErrPermissionDenied = fmt.Errorf("%w: permission denied", ErrForbidden)
	ErrAdminRequired    = fmt.Errorf("%w: admin access required", ErrForbidden)

	ErrMembershipConflict = fmt.Errorf("%w: concurrent engagement update", ErrConflict)

	ErrEmailRegistered   = fmt.Errorf("%w: email already registered", ErrInvalidInput)
	ErrUsernameTaken     = fmt.Errorf("%w: username already taken", ErrInvalidInput)
	ErrPhoneRegistered   = fmt.Errorf("%w: phone number is already associated with a verified account", ErrInvalidInput)
	ErrDeviceRegistered  = fmt.Errorf("%w: device is already registered to an existing account", ErrInvalidInput)
	ErrOTPUsed           = fmt.Errorf("%w: verification code is already associated with a verified account", ErrInvalidInput)
	ErrWeakPassword      = fmt.Errorf("%w: password must be at least 8 characters and contain a digit, an uppercase and a lowercase letter", ErrInvalidInput)
	ErrInvalidUsername   = fmt.Errorf("%w: username may only contain letters, digits and underscores", ErrInvalidInput)
	ErrInvalidCategory   = fmt.Errorf("%w: invalid category", ErrInvalidInput)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", ErrInvalidInput)
	ErrInvalidResetToken = fmt.Errorf("%w: invalid or expired reset token", ErrInvalidInput)
	ErrInvalidFileType   = fmt.Errorf("%w: invalid file type", ErrInvalidInput)
	ErrFileTooLarge      = fmt.Errorf("%w: file too large", ErrInvalidInput)
)
