package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/http/handler"
	"github.com/hirewire/hirewire-backend/internal/http/router"
	"github.com/hirewire/hirewire-backend/internal/repository"
	"github.com/hirewire/hirewire-backend/internal/security"
	"github.com/hirewire/hirewire-backend/internal/service"
)

const testPassword = "Stronger#Pass123"

// captureMailer keeps delivered codes in memory so tests can complete the
// verification flows end to end.
type captureMailer struct {
	codes map[string]string
}

func (m *captureMailer) SendOTPEmail(_ context.Context, email, code string, purpose domain.OTPPurpose, _ time.Duration) error {
	m.codes[email+"/"+string(purpose)] = code
	return nil
}

func (m *captureMailer) SendWelcomeEmail(context.Context, string, string) error { return nil }

type apiFixture struct {
	t           *testing.T
	srv         http.Handler
	mailer      *captureMailer
	jwt         *security.JWTManager
	accountRepo repository.AccountRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(
		&domain.Account{},
		&domain.OTPRecord{},
		&domain.CandidateProfile{},
		&domain.EmployerProfile{},
		&domain.PendingEdit{},
		&domain.ApprovalLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		OTPCodeLength:       6,
		OTPMaxAttempts:      5,
		OTPHourlyIssueLimit: 5,
		OTPEmailVerifyTTL:   5 * time.Minute,
		OTPPasswordResetTTL: 10 * time.Minute,
		OTPEmailChangeTTL:   5 * time.Minute,
		JWTAccessTTL:        15 * time.Minute,
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtMgr := security.NewJWTManager("hirewire-test", "hirewire-test-api", "0123456789abcdef0123456789abcdef")

	accountRepo := repository.NewAccountRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	employerRepo := repository.NewEmployerRepository(db)

	mailer := &captureMailer{codes: map[string]string{}}
	otpSvc := service.NewOTPService(cfg, db, otpRepo)
	accountSvc := service.NewAccountService(cfg, db, accountRepo, candidateRepo, employerRepo, otpSvc, mailer, mailer, jwtMgr, quiet)
	approvalSvc := service.NewApprovalService(db, accountRepo, employerRepo, quiet)

	srv := router.NewRouter(router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(accountSvc),
		EmployerHandler:     handler.NewEmployerHandler(approvalSvc),
		AdminHandler:        handler.NewAdminHandler(accountSvc, approvalSvc),
		JWTManager:          jwtMgr,
		CORSOrigins:         []string{"http://localhost:3000"},
		AuthRateLimitPerMin: 1000,
		APIRateLimitPerMin:  1000,
	})

	return &apiFixture{t: t, srv: srv, mailer: mailer, jwt: jwtMgr, accountRepo: accountRepo}
}

func (fx *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	fx.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fx.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.10:4567"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	fx.srv.ServeHTTP(rr, req)
	return rr
}

func (fx *apiFixture) decode(rr *httptest.ResponseRecorder) map[string]any {
	fx.t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   map[string]any `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		fx.t.Fatalf("decode envelope: %v (body %s)", err, rr.Body.String())
	}
	if env.Data != nil {
		return env.Data
	}
	return env.Error
}

func (fx *apiFixture) otpCode(email string, purpose domain.OTPPurpose) string {
	fx.t.Helper()
	code, ok := fx.mailer.codes[email+"/"+string(purpose)]
	if !ok {
		fx.t.Fatalf("no code delivered for %s/%s", email, purpose)
	}
	return code
}

// register drives the public endpoints through email verification.
func (fx *apiFixture) registerVerified(email, role string) {
	fx.t.Helper()
	body := map[string]string{"email": email, "password": testPassword, "role": role}
	if role == "EMPLOYER" {
		body["company_name"] = "Test Co"
	} else {
		body["full_name"] = "Test Person"
	}
	if rr := fx.do(http.MethodPost, "/api/v1/auth/register", "", body); rr.Code != http.StatusCreated {
		fx.t.Fatalf("register %s: %d %s", email, rr.Code, rr.Body.String())
	}
	rr := fx.do(http.MethodPost, "/api/v1/auth/verify-email", "", map[string]string{
		"email": email,
		"code":  fx.otpCode(email, domain.PurposeEmailVerification),
	})
	if rr.Code != http.StatusOK {
		fx.t.Fatalf("verify %s: %d %s", email, rr.Code, rr.Body.String())
	}
}

func (fx *apiFixture) login(email string) (string, map[string]any) {
	fx.t.Helper()
	rr := fx.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": testPassword,
	})
	if rr.Code != http.StatusOK {
		fx.t.Fatalf("login %s: %d %s", email, rr.Code, rr.Body.String())
	}
	data := fx.decode(rr)
	token, _ := data["access_token"].(string)
	if token == "" {
		fx.t.Fatalf("missing access token in %v", data)
	}
	return token, data
}

// seedAdmin creates an active admin directly; admins are provisioned by
// bootstrap seeding, not self-registration.
func (fx *apiFixture) seedAdmin(email string) string {
	fx.t.Helper()
	hash, err := security.HashPassword(testPassword)
	if err != nil {
		fx.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	account := &domain.Account{
		PublicID:        "admin-" + email,
		Email:           email,
		PasswordHash:    hash,
		Role:            domain.RoleAdmin,
		Status:          domain.StatusActive,
		IsVerified:      true,
		EmailVerifiedAt: &now,
	}
	if err := fx.accountRepo.Create(account); err != nil {
		fx.t.Fatalf("seed admin: %v", err)
	}
	token, err := fx.jwt.SignAccessToken(account.PublicID, string(domain.RoleAdmin), 15*time.Minute)
	if err != nil {
		fx.t.Fatalf("sign admin token: %v", err)
	}
	return token
}
