package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
	ErrInvalidState       = errors.New("operation not allowed in the current account state")
	ErrSelfBan            = errors.New("cannot ban your own account")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("unsupported account role")
	ErrEmailDelivery      = errors.New("email delivery failed")

	ErrOTPNotFound         = errors.New("no active passcode")
	ErrOTPExpired          = errors.New("passcode expired")
	ErrOTPAttemptsExceeded = errors.New("passcode attempt limit reached")
	ErrOTPMismatch         = errors.New("incorrect passcode")
	ErrOTPRateLimited      = errors.New("too many passcode requests")

	ErrNoPendingEdits   = errors.New("no pending profile edits")
	ErrReasonRequired   = errors.New("rejection reason is required")
	ErrUnknownEditField = errors.New("unknown editable field")
)
