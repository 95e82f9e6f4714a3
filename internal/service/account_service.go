package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/repository"
	"github.com/hirewire/hirewire-backend/internal/security"

	"gorm.io/gorm"
)

// AccountService owns the account status state machine: registration, email
// verification, login gating, password reset, and admin ban/unban.
type AccountService struct {
	cfg           *config.Config
	db            *gorm.DB
	accountRepo   repository.AccountRepository
	candidateRepo repository.CandidateRepository
	employerRepo  repository.EmployerRepository
	otpSvc        *OTPService
	otpMailer     OTPMailer
	welcomeMailer WelcomeMailer
	jwt           *security.JWTManager
	logger        *slog.Logger
	now           func() time.Time
}

func NewAccountService(
	cfg *config.Config,
	db *gorm.DB,
	accountRepo repository.AccountRepository,
	candidateRepo repository.CandidateRepository,
	employerRepo repository.EmployerRepository,
	otpSvc *OTPService,
	otpMailer OTPMailer,
	welcomeMailer WelcomeMailer,
	jwt *security.JWTManager,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		cfg:           cfg,
		db:            db,
		accountRepo:   accountRepo,
		candidateRepo: candidateRepo,
		employerRepo:  employerRepo,
		otpSvc:        otpSvc,
		otpMailer:     otpMailer,
		welcomeMailer: welcomeMailer,
		jwt:           jwt,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type RegistrationInput struct {
	Email       string
	Password    string
	Role        domain.AccountRole
	FullName    string
	CompanyName string
}

// RegistrationResult reports the created account and whether the
// verification passcode actually went out. A false VerificationSent means
// the caller should resend; the account itself is committed either way.
type RegistrationResult struct {
	Account          *domain.Account
	VerificationSent bool
}

type LoginResult struct {
	Account     *domain.Account
	AccessToken string
	ExpiresAt   time.Time
	Redirect    domain.RedirectHint
}

var (
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
	specialRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Register creates the account and its role-specific profile shell in one
// transaction, then issues the verification passcode. Admin accounts are
// seeded, never self-registered.
func (s *AccountService) Register(input RegistrationInput) (*RegistrationResult, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !input.Role.Valid() || input.Role == domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		PublicID:     uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.StatusPendingEmailVerification,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.WithTx(tx).Create(account); err != nil {
			return err
		}
		switch input.Role {
		case domain.RoleCandidate:
			return s.candidateRepo.WithTx(tx).CreateProfile(&domain.CandidateProfile{
				AccountID: account.ID,
				FullName:  strings.TrimSpace(input.FullName),
			})
		case domain.RoleEmployer:
			return s.employerRepo.WithTx(tx).CreateProfile(&domain.EmployerProfile{
				AccountID:     account.ID,
				CompanyName:   strings.TrimSpace(input.CompanyName),
				ProfileStatus: domain.ProfileApproved,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		observability.RecordRegistration(context.Background(), string(input.Role), "error")
		return nil, err
	}

	result := &RegistrationResult{Account: account}
	if err := s.issueAndDeliverOTP(email, domain.PurposeEmailVerification); err != nil {
		// The account is committed; verification is recoverable via resend.
		s.logger.Warn("verification passcode delivery failed",
			"email", email, "error", err)
	} else {
		result.VerificationSent = true
	}
	observability.RecordRegistration(context.Background(), string(input.Role), "success")
	return result, nil
}

// VerifyEmail consumes the verification passcode and advances the account
// into its role-specific post-verification status.
func (s *AccountService) VerifyEmail(email, code string) (*domain.Account, error) {
	email = normalizeEmail(email)
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Status != domain.StatusPendingEmailVerification || account.IsVerified {
		return nil, ErrInvalidState
	}

	if err := s.otpSvc.Verify(email, code, domain.PurposeEmailVerification); err != nil {
		return nil, err
	}

	next := domain.NextStatusAfterEmailVerification(account.Role)
	if err := s.accountRepo.MarkEmailVerified(account.ID, next, s.now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	if err := s.welcomeMailer.SendWelcomeEmail(context.Background(), email, s.displayName(account)); err != nil {
		s.logger.Warn("welcome email delivery failed", "email", email, "error", err)
	}

	return s.accountRepo.FindByID(account.ID)
}

// ResendOTP re-issues the verification passcode. Only meaningful while the
// account still awaits email verification.
func (s *AccountService) ResendOTP(email string) error {
	email = normalizeEmail(email)
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if account.Status != domain.StatusPendingEmailVerification || account.IsVerified {
		return ErrInvalidState
	}
	return s.issueAndDeliverOTP(email, domain.PurposeEmailVerification)
}

// Login authenticates with uniform failure semantics: a missing account and
// a wrong password are indistinguishable to the caller. Every non-banned
// status may log in; the redirect hint routes the client to the right step.
func (s *AccountService) Login(email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			observability.RecordAuthLogin(context.Background(), "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := security.VerifyPassword(account.PasswordHash, password)
	if err != nil || !ok {
		observability.RecordAuthLogin(context.Background(), "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	if account.Status == domain.StatusBanned {
		observability.RecordAuthLogin(context.Background(), "banned")
		return nil, ErrAccountBanned
	}

	now := s.now()
	if err := s.accountRepo.TouchLastLogin(account.ID, now); err != nil {
		return nil, err
	}
	account.LastLoginAt = &now

	token, err := s.jwt.SignAccessToken(account.PublicID, string(account.Role), s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthLogin(context.Background(), "success")
	return &LoginResult{
		Account:     account,
		AccessToken: token,
		ExpiresAt:   now.Add(s.cfg.JWTAccessTTL),
		Redirect:    domain.RedirectFor(account.Status, account.Role),
	}, nil
}

// RequestPasswordReset always reports success so callers cannot probe for
// registered emails. Failures are logged only.
func (s *AccountService) RequestPasswordReset(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	if _, err := s.accountRepo.FindByEmail(email); err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			s.logger.Warn("password reset lookup failed", "email", email, "error", err)
		}
		return nil
	}
	if err := s.issueAndDeliverOTP(email, domain.PurposePasswordReset); err != nil {
		s.logger.Warn("password reset passcode delivery failed", "email", email, "error", err)
	}
	return nil
}

// ResetPassword verifies the reset passcode and overwrites the password
// hash. Independent of the lifecycle state machine.
func (s *AccountService) ResetPassword(email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.otpSvc.Verify(email, code, domain.PurposePasswordReset); err != nil {
		return err
	}
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accountRepo.UpdateFields(account.ID, map[string]any{"password_hash": hash})
}

// Ban moves any non-banned account to BANNED. Self-ban is forbidden.
func (s *AccountService) Ban(actorID uint, publicID string) error {
	account, err := s.accountRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if account.ID == actorID {
		return ErrSelfBan
	}
	err = s.accountRepo.TransitionStatusExcept(account.ID, domain.StatusBanned, domain.StatusBanned)
	if errors.Is(err, repository.ErrStatusConflict) {
		return ErrInvalidState
	}
	return err
}

// Unban requires the account to be exactly BANNED and restores it to ACTIVE.
func (s *AccountService) Unban(publicID string) error {
	account, err := s.accountRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	err = s.accountRepo.TransitionStatus(account.ID, domain.StatusBanned, domain.StatusActive)
	if errors.Is(err, repository.ErrStatusConflict) {
		return ErrInvalidState
	}
	return err
}

func (s *AccountService) GetByPublicID(publicID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts(q repository.AccountListQuery) (*repository.PageResult[domain.Account], error) {
	return s.accountRepo.ListPaged(q)
}

func (s *AccountService) issueAndDeliverOTP(email string, purpose domain.OTPPurpose) error {
	issued, err := s.otpSvc.Issue(email, purpose)
	if err != nil {
		return err
	}
	return s.otpMailer.SendOTPEmail(context.Background(), email, issued.Code, purpose, issued.TTL)
}

func (s *AccountService) displayName(account *domain.Account) string {
	switch account.Role {
	case domain.RoleCandidate:
		if profile, err := s.candidateRepo.FindByAccountID(account.ID); err == nil {
			return profile.FullName
		}
	case domain.RoleEmployer:
		if profile, err := s.employerRepo.FindByAccountID(account.ID); err == nil {
			return profile.CompanyName
		}
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 12 || !uppercaseRe.MatchString(password) ||
		!lowercaseRe.MatchString(password) || !digitRe.MatchString(password) || !specialRe.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
