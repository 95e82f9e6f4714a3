package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/repository"
	"github.com/hirewire/hirewire-backend/internal/security"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureMailer records outbound mail and can be told to fail.
type captureMailer struct {
	codes        map[string]string
	welcomes     []string
	failNextOTP  bool
	failWelcomes bool
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}}
}

func (m *captureMailer) SendOTPEmail(_ context.Context, email, code string, purpose domain.OTPPurpose, _ time.Duration) error {
	if m.failNextOTP {
		m.failNextOTP = false
		return fmt.Errorf("%w: smtp unreachable", ErrEmailDelivery)
	}
	m.codes[email+"/"+string(purpose)] = code
	return nil
}

func (m *captureMailer) SendWelcomeEmail(_ context.Context, email, _ string) error {
	if m.failWelcomes {
		return fmt.Errorf("%w: smtp unreachable", ErrEmailDelivery)
	}
	m.welcomes = append(m.welcomes, email)
	return nil
}

func (m *captureMailer) codeFor(email string, purpose domain.OTPPurpose) string {
	return m.codes[email+"/"+string(purpose)]
}

type serviceFixture struct {
	t        *testing.T
	cfg      *config.Config
	db       *gorm.DB
	mailer   *captureMailer
	otp      *OTPService
	accounts *AccountService
	approval *ApprovalService
	clock    time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
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
		JWTIssuer:           "hirewire-test",
		JWTAudience:         "hirewire-test-api",
		JWTAccessTTL:        15 * time.Minute,
		OTPCodeLength:       6,
		OTPMaxAttempts:      5,
		OTPHourlyIssueLimit: 5,
		OTPEmailVerifyTTL:   5 * time.Minute,
		OTPPasswordResetTTL: 10 * time.Minute,
		OTPEmailChangeTTL:   5 * time.Minute,
	}

	accountRepo := repository.NewAccountRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	employerRepo := repository.NewEmployerRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	mailer := newCaptureMailer()
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, "0123456789abcdef0123456789abcdef")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	fx := &serviceFixture{
		t:      t,
		cfg:    cfg,
		db:     db,
		mailer: mailer,
		clock:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	fx.otp = NewOTPService(cfg, db, otpRepo)
	fx.otp.now = fx.now
	fx.accounts = NewAccountService(cfg, db, accountRepo, candidateRepo, employerRepo,
		fx.otp, mailer, mailer, jwtMgr, log)
	fx.accounts.now = fx.now
	fx.approval = NewApprovalService(db, accountRepo, employerRepo, log)
	fx.approval.now = fx.now
	return fx
}

func (fx *serviceFixture) now() time.Time { return fx.clock }

func (fx *serviceFixture) advance(d time.Duration) { fx.clock = fx.clock.Add(d) }

const testPassword = "Stronger#Pass123"

func (fx *serviceFixture) register(email string, role domain.AccountRole) *domain.Account {
	fx.t.Helper()
	res, err := fx.accounts.Register(RegistrationInput{
		Email:       email,
		Password:    testPassword,
		Role:        role,
		FullName:    "Test User",
		CompanyName: "Test Co",
	})
	if err != nil {
		fx.t.Fatalf("register %s: %v", email, err)
	}
	if !res.VerificationSent {
		fx.t.Fatalf("expected verification mail for %s", email)
	}
	return res.Account
}

func (fx *serviceFixture) registerVerified(email string, role domain.AccountRole) *domain.Account {
	fx.t.Helper()
	fx.register(email, role)
	account, err := fx.accounts.VerifyEmail(email, fx.mailer.codeFor(email, domain.PurposeEmailVerification))
	if err != nil {
		fx.t.Fatalf("verify %s: %v", email, err)
	}
	return account
}

func (fx *serviceFixture) activeEmployer(email string) *domain.Account {
	fx.t.Helper()
	account := fx.registerVerified(email, domain.RoleEmployer)
	if _, err := fx.approval.CompleteProfile(account.PublicID, ProfileInput{
		CompanyName: "Test Co",
		Website:     "https://test.example",
	}); err != nil {
		fx.t.Fatalf("complete profile %s: %v", email, err)
	}
	if err := fx.approval.ApproveEmployer(99, account.PublicID, ""); err != nil {
		fx.t.Fatalf("approve %s: %v", email, err)
	}
	return fx.mustAccount(email)
}

func (fx *serviceFixture) mustAccount(email string) *domain.Account {
	fx.t.Helper()
	var account domain.Account
	if err := fx.db.Where("email = ?", email).First(&account).Error; err != nil {
		fx.t.Fatalf("load account %s: %v", email, err)
	}
	return &account
}

func (fx *serviceFixture) mustProfile(accountID uint) *domain.EmployerProfile {
	fx.t.Helper()
	var profile domain.EmployerProfile
	if err := fx.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		fx.t.Fatalf("load profile for account %d: %v", accountID, err)
	}
	return &profile
}

func (fx *serviceFixture) activeOTPCount(email string, purpose domain.OTPPurpose) int64 {
	fx.t.Helper()
	var count int64
	err := fx.db.Model(&domain.OTPRecord{}).
		Where("email = ? AND purpose = ? AND is_used = ? AND is_verified = ?", email, purpose, false, false).
		Count(&count).Error
	if err != nil {
		fx.t.Fatalf("count active otps: %v", err)
	}
	return count
}
