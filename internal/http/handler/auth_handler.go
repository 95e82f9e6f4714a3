package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/http/response"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/service"
)

type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", status, time.Since(start))
	}()

	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		FullName    string `json:"full_name"`
		CompanyName string `json:"company_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.accounts.Register(service.RegistrationInput{
		Email:       body.Email,
		Password:    body.Password,
		Role:        domain.AccountRole(body.Role),
		FullName:    body.FullName,
		CompanyName: body.CompanyName,
	})
	if err != nil {
		status = "failure"
		observability.Audit(r, "account.register.failed", "role", body.Role)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "account.register.success",
		"account_id", result.Account.PublicID,
		"role", string(result.Account.Role),
		"verification_sent", result.VerificationSent,
	)
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"account":           result.Account,
		"verification_sent": result.VerificationSent,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_email", status, time.Since(start))
	}()

	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	account, err := h.accounts.VerifyEmail(body.Email, body.Code)
	if err != nil {
		status = "failure"
		observability.Audit(r, "account.verify_email.failed")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "account.verify_email.success", "account_id", account.PublicID)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"account":  account,
		"redirect": domain.RedirectFor(account.Status, account.Role),
	})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "resend_otp", status, time.Since(start))
	}()

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	if err := h.accounts.ResendOTP(body.Email); err != nil {
		status = "failure"
		observability.Audit(r, "account.resend_otp.failed")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "account.resend_otp.success")
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.accounts.Login(body.Email, body.Password)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.login.failed")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "auth.login.success", "account_id", result.Account.PublicID)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"account":      result.Account,
		"access_token": result.AccessToken,
		"expires_at":   result.ExpiresAt,
		"redirect":     result.Redirect,
	})
}

// PasswordForgot always answers 202 so the endpoint cannot be used to probe
// which emails exist.
func (h *AuthHandler) PasswordForgot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "password_forgot", status, time.Since(start))
	}()

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	_ = h.accounts.RequestPasswordReset(body.Email)
	observability.Audit(r, "auth.password_forgot.accepted")
	response.JSON(w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "password_reset", status, time.Since(start))
	}()

	var body struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	if err := h.accounts.ResetPassword(body.Email, body.Code, body.NewPassword); err != nil {
		status = "failure"
		observability.Audit(r, "auth.password_reset.failed")
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "auth.password_reset.success")
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "password_updated"})
}
