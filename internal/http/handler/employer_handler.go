package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/http/middleware"
	"github.com/hirewire/hirewire-backend/internal/http/response"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/service"
)

// EmployerHandler serves the authenticated employer's own profile. The
// account is always resolved from the access token, never from the URL.
type EmployerHandler struct {
	approvals *service.ApprovalService
}

func NewEmployerHandler(approvals *service.ApprovalService) *EmployerHandler {
	return &EmployerHandler{approvals: approvals}
}

func (h *EmployerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	profile, err := h.approvals.Profile(claims.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}

func (h *EmployerHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var body struct {
		CompanyName string `json:"company_name"`
		Website     string `json:"website"`
		Industry    string `json:"industry"`
		Location    string `json:"location"`
		About       string `json:"about"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	profile, err := h.approvals.CompleteProfile(claims.Subject, service.ProfileInput{
		CompanyName: body.CompanyName,
		Website:     body.Website,
		Industry:    body.Industry,
		Location:    body.Location,
		About:       body.About,
	})
	if err != nil {
		observability.Audit(r, "employer.profile.complete.failed", "account_id", claims.Subject)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "employer.profile.complete.success", "account_id", claims.Subject)
	response.JSON(w, r, http.StatusOK, profile)
}

func (h *EmployerHandler) StageEdits(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}

	var body struct {
		Changes []struct {
			Field string `json:"field"`
			Value string `json:"value"`
		} `json:"changes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	changes := make([]service.FieldChange, 0, len(body.Changes))
	for _, c := range body.Changes {
		changes = append(changes, service.FieldChange{Field: domain.EditableField(c.Field), Value: c.Value})
	}

	edits, err := h.approvals.StageEdits(claims.Subject, changes)
	if err != nil {
		observability.Audit(r, "employer.edits.stage.failed", "account_id", claims.Subject)
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "employer.edits.stage.success", "account_id", claims.Subject, "count", len(edits))
	response.JSON(w, r, http.StatusAccepted, map[string]any{"edits": edits})
}

func (h *EmployerHandler) PendingEdits(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	edits, err := h.approvals.PendingEdits(claims.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"edits": edits})
}
