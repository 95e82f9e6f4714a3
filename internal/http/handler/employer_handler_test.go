package handler_test

import (
	"net/http"
	"testing"
)

func TestEmployerProfileCompletionFlow(t *testing.T) {
	fx := newAPIFixture(t)
	fx.registerVerified("emp@example.com", "EMPLOYER")
	token, loginData := fx.login("emp@example.com")
	if loginData["redirect"] != "complete-profile" {
		t.Fatalf("expected complete-profile redirect, got %v", loginData["redirect"])
	}

	rr := fx.do(http.MethodPost, "/api/v1/employer/profile/complete", token, map[string]string{
		"company_name": "Initrode",
		"website":      "https://initrode.example",
		"industry":     "Manufacturing",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("complete profile: %d %s", rr.Code, rr.Body.String())
	}

	_, loginData = fx.login("emp@example.com")
	if loginData["redirect"] != "pending-approval" {
		t.Fatalf("expected pending-approval redirect, got %v", loginData["redirect"])
	}

	rr = fx.do(http.MethodGet, "/api/v1/employer/profile", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get profile: %d %s", rr.Code, rr.Body.String())
	}
}

func TestEmployerRoutesRequireEmployerRole(t *testing.T) {
	fx := newAPIFixture(t)
	fx.registerVerified("jane@example.com", "CANDIDATE")
	token, _ := fx.login("jane@example.com")

	rr := fx.do(http.MethodGet, "/api/v1/employer/profile", token, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for candidate, got %d", rr.Code)
	}

	rr = fx.do(http.MethodGet, "/api/v1/employer/profile", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
}

func TestEmployerEditStagingEndpoints(t *testing.T) {
	fx := newAPIFixture(t)
	fx.registerVerified("emp@example.com", "EMPLOYER")
	token, _ := fx.login("emp@example.com")

	rr := fx.do(http.MethodPost, "/api/v1/employer/profile/complete", token, map[string]string{
		"company_name": "Initrode",
		"website":      "https://initrode.example",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("complete profile: %d %s", rr.Code, rr.Body.String())
	}
	adminToken := fx.seedAdmin("ops@example.com")
	data := fx.decode(fx.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "emp@example.com", "password": testPassword,
	}))
	account, _ := data["account"].(map[string]any)
	employerID, _ := account["id"].(string)
	if rr := fx.do(http.MethodPost, "/api/v1/admin/employers/"+employerID+"/approve", adminToken, nil); rr.Code != http.StatusOK {
		t.Fatalf("approve employer: %d %s", rr.Code, rr.Body.String())
	}

	rr = fx.do(http.MethodPost, "/api/v1/employer/profile/edits", token, map[string]any{
		"changes": []map[string]string{
			{"field": "company_name", "value": "Initech"},
		},
	})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("stage edits: %d %s", rr.Code, rr.Body.String())
	}

	rr = fx.do(http.MethodGet, "/api/v1/employer/profile/edits", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("pending edits: %d %s", rr.Code, rr.Body.String())
	}
	edits, _ := fx.decode(rr)["edits"].([]any)
	if len(edits) != 1 {
		t.Fatalf("expected 1 pending edit, got %d", len(edits))
	}

	rr = fx.do(http.MethodPost, "/api/v1/employer/profile/edits", token, map[string]any{
		"changes": []map[string]string{
			{"field": "salary", "value": "1"},
		},
	})
	if rr.Code != http.StatusConflict && rr.Code != http.StatusBadRequest {
		t.Fatalf("expected staging atop pending edits to fail, got %d %s", rr.Code, rr.Body.String())
	}
}
