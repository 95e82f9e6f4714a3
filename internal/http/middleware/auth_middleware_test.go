package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hirewire/hirewire-backend/internal/security"
)

func newJWTManagerForTest() *security.JWTManager {
	return security.NewJWTManager("hirewire-test", "hirewire-test-api", "0123456789abcdef0123456789abcdef")
}

func TestAuthMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	h := AuthMiddleware(newJWTManagerForTest())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rr.Code)
	}
}

func TestAuthMiddlewarePutsClaimsOnContext(t *testing.T) {
	mgr := newJWTManagerForTest()
	raw, err := mgr.SignAccessToken("acct-1", "EMPLOYER", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var gotSubject, gotRole string
	h := AuthMiddleware(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims on context")
		}
		gotSubject, gotRole = claims.Subject, claims.Role
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotSubject != "acct-1" || gotRole != "EMPLOYER" {
		t.Fatalf("unexpected claims: subject=%q role=%q", gotSubject, gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	mgr := newJWTManagerForTest()
	adminOnly := AuthMiddleware(mgr)(RequireRole("ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	adminToken, _ := mgr.SignAccessToken("a1", "ADMIN", time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	adminOnly.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rr.Code)
	}

	candidateToken, _ := mgr.SignAccessToken("c1", "CANDIDATE", time.Minute)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+candidateToken)
	rr = httptest.NewRecorder()
	adminOnly.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for candidate, got %d", rr.Code)
	}
}
