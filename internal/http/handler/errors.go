package handler

import (
	"errors"
	"net/http"

	"github.com/hirewire/hirewire-backend/internal/http/response"
	"github.com/hirewire/hirewire-backend/internal/service"
)

// writeServiceError maps service sentinels onto HTTP status codes and stable
// error codes. Unknown errors never leak their message to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email is already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
	case errors.Is(err, service.ErrAccountBanned):
		response.Error(w, r, http.StatusForbidden, "ACCOUNT_BANNED", "account is banned", nil)
	case errors.Is(err, service.ErrSelfBan):
		response.Error(w, r, http.StatusForbidden, "SELF_BAN", "cannot ban your own account", nil)
	case errors.Is(err, service.ErrAccountNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "account not found", nil)
	case errors.Is(err, service.ErrOTPNotFound):
		response.Error(w, r, http.StatusNotFound, "OTP_NOT_FOUND", "no active verification code", nil)
	case errors.Is(err, service.ErrOTPExpired):
		response.Error(w, r, http.StatusBadRequest, "OTP_EXPIRED", "verification code expired", nil)
	case errors.Is(err, service.ErrOTPAttemptsExceeded):
		response.Error(w, r, http.StatusTooManyRequests, "OTP_ATTEMPTS_EXCEEDED", "too many failed attempts, request a new code", nil)
	case errors.Is(err, service.ErrOTPMismatch):
		response.Error(w, r, http.StatusBadRequest, "OTP_MISMATCH", err.Error(), nil)
	case errors.Is(err, service.ErrOTPRateLimited):
		response.Error(w, r, http.StatusTooManyRequests, "OTP_RATE_LIMITED", "too many codes requested, try again later", nil)
	case errors.Is(err, service.ErrInvalidState):
		response.Error(w, r, http.StatusConflict, "INVALID_STATE", "operation not allowed in current state", nil)
	case errors.Is(err, service.ErrNoPendingEdits):
		response.Error(w, r, http.StatusConflict, "NO_PENDING_EDITS", "no pending edits to decide", nil)
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrUnknownEditField):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
