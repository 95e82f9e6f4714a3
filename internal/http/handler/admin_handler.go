package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/http/middleware"
	"github.com/hirewire/hirewire-backend/internal/http/response"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/repository"
	"github.com/hirewire/hirewire-backend/internal/service"
)

type AdminHandler struct {
	accounts  *service.AccountService
	approvals *service.ApprovalService
}

func NewAdminHandler(accounts *service.AccountService, approvals *service.ApprovalService) *AdminHandler {
	return &AdminHandler{accounts: accounts, approvals: approvals}
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	page, err := h.accounts.ListAccounts(repository.AccountListQuery{
		PageRequest: pageReq,
		Role:        domain.AccountRole(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("role")))),
		Status:      domain.AccountStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Email:       strings.TrimSpace(r.URL.Query().Get("email")),
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list accounts", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByPublicID(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, account)
}

func (h *AdminHandler) BanAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	if err := h.accounts.Ban(actor.ID, target); err != nil {
		observability.Audit(r, "admin.account.ban.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.account.ban.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "banned"})
}

func (h *AdminHandler) UnbanAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	if err := h.accounts.Unban(target); err != nil {
		observability.Audit(r, "admin.account.unban.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.account.unban.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "active"})
}

func (h *AdminHandler) ApproveEmployer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	reason, ok := decodeReason(w, r, false)
	if !ok {
		return
	}
	if err := h.approvals.ApproveEmployer(actor.ID, target, reason); err != nil {
		observability.Audit(r, "admin.employer.approve.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.employer.approve.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *AdminHandler) RejectEmployer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	reason, ok := decodeReason(w, r, true)
	if !ok {
		return
	}
	if err := h.approvals.RejectEmployer(actor.ID, target, reason); err != nil {
		observability.Audit(r, "admin.employer.reject.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.employer.reject.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *AdminHandler) ApproveEdits(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	if err := h.approvals.ApproveEdits(actor.ID, target); err != nil {
		observability.Audit(r, "admin.edits.approve.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.edits.approve.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *AdminHandler) RejectEdits(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "id")
	reason, ok := decodeReason(w, r, true)
	if !ok {
		return
	}
	if err := h.approvals.RejectEdits(actor.ID, target, reason); err != nil {
		observability.Audit(r, "admin.edits.reject.failed", "actor_id", actor.PublicID, "target_id", target)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "admin.edits.reject.success", "actor_id", actor.PublicID, "target_id", target)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *AdminHandler) EmployerPendingEdits(w http.ResponseWriter, r *http.Request) {
	edits, err := h.approvals.PendingEdits(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"edits": edits})
}

func (h *AdminHandler) ApprovalLog(w http.ResponseWriter, r *http.Request) {
	logs, err := h.approvals.ApprovalLog(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"entries": logs})
}

// actor resolves the admin account behind the access token. The internal
// numeric ID is what the services log decisions against.
func (h *AdminHandler) actor(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return nil, false
	}
	account, err := h.accounts.GetByPublicID(claims.Subject)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown actor", nil)
		return nil, false
	}
	return account, true
}

// decodeReason reads an optional {"reason": ...} body. An empty body is fine
// when the reason is optional.
func decodeReason(w http.ResponseWriter, r *http.Request, required bool) (string, bool) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return "", false
	}
	if required && strings.TrimSpace(body.Reason) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "reason is required", nil)
		return "", false
	}
	return body.Reason, true
}

func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	page := repository.DefaultPage
	pageSize := repository.DefaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page must be a positive integer")
		}
		page = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page_size must be a positive integer")
		}
		if v > repository.MaxPageSize {
			return repository.PageRequest{}, fmt.Errorf("page_size must be <= %d", repository.MaxPageSize)
		}
		pageSize = v
	}
	return repository.PageRequest{Page: page, PageSize: pageSize}, nil
}

func paginatedData(page *repository.PageResult[domain.Account]) map[string]any {
	return map[string]any{
		"items": page.Items,
		"pagination": map[string]any{
			"page":        page.Page,
			"page_size":   page.PageSize,
			"total":       page.Total,
			"total_pages": page.TotalPages,
		},
	}
}
