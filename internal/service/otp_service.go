package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/repository"
	"github.com/hirewire/hirewire-backend/internal/security"

	"gorm.io/gorm"
)

// OTPService issues and verifies one-time passcodes. Only code hashes are
// persisted; the plaintext exists solely in the Issue return value for
// out-of-band delivery.
type OTPService struct {
	cfg     *config.Config
	db      *gorm.DB
	otpRepo repository.OTPRepository
	now     func() time.Time
}

// IssuedOTP carries the plaintext code back to the caller. It is never
// stored or logged in production configurations.
type IssuedOTP struct {
	Code      string
	ExpiresAt time.Time
	TTL       time.Duration
}

func NewOTPService(cfg *config.Config, db *gorm.DB, otpRepo repository.OTPRepository) *OTPService {
	return &OTPService{
		cfg:     cfg,
		db:      db,
		otpRepo: otpRepo,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a fresh passcode for (email, purpose). Every previously
// active record for the pair is invalidated in the same transaction, so at
// most one valid code is ever outstanding.
func (s *OTPService) Issue(email string, purpose domain.OTPPurpose) (*IssuedOTP, error) {
	email = normalizeEmail(email)
	now := s.now()

	issued, err := s.otpRepo.CountIssuedSince(email, purpose, now.Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	if issued >= int64(s.cfg.OTPHourlyIssueLimit) {
		observability.RecordOTPIssued(context.Background(), string(purpose), "rate_limited")
		return nil, ErrOTPRateLimited
	}

	code, err := security.RandomDigits(s.cfg.OTPCodeLength)
	if err != nil {
		return nil, err
	}
	ttl := s.cfg.OTPTTLFor(purpose)
	expiresAt := now.Add(ttl)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.otpRepo.WithTx(tx)
		if err := repo.InvalidateActive(email, purpose, now); err != nil {
			return err
		}
		return repo.Create(&domain.OTPRecord{
			Email:     email,
			Purpose:   purpose,
			CodeHash:  hashOTPCode(code),
			CreatedAt: now,
			ExpiresAt: expiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	observability.RecordOTPIssued(context.Background(), string(purpose), "success")
	return &IssuedOTP{Code: code, ExpiresAt: expiresAt, TTL: ttl}, nil
}

// Verify checks code against the single active record for (email, purpose).
// Failure order is fixed: missing, expired, attempt ceiling, mismatch. A
// successful verification consumes the record permanently.
func (s *OTPService) Verify(email, code string, purpose domain.OTPPurpose) error {
	email = normalizeEmail(email)
	now := s.now()

	record, err := s.otpRepo.FindActive(email, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrOTPRecordNotFound) {
			observability.RecordOTPVerification(context.Background(), string(purpose), "not_found")
			return ErrOTPNotFound
		}
		return err
	}
	if now.After(record.ExpiresAt) {
		observability.RecordOTPVerification(context.Background(), string(purpose), "expired")
		return ErrOTPExpired
	}
	if record.AttemptCount >= s.cfg.OTPMaxAttempts {
		observability.RecordOTPVerification(context.Background(), string(purpose), "attempts_exceeded")
		return ErrOTPAttemptsExceeded
	}

	supplied := hashOTPCode(code)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(record.CodeHash)) != 1 {
		if err := s.otpRepo.IncrementAttempts(record.ID); err != nil {
			return err
		}
		remaining := s.cfg.OTPMaxAttempts - record.AttemptCount - 1
		observability.RecordOTPVerification(context.Background(), string(purpose), "mismatch")
		return fmt.Errorf("%w: %d attempts remaining", ErrOTPMismatch, remaining)
	}

	if err := s.otpRepo.MarkVerified(record.ID, now); err != nil {
		if errors.Is(err, repository.ErrOTPRecordNotFound) {
			// Lost the consume race to a concurrent verification.
			return ErrOTPNotFound
		}
		return err
	}
	observability.RecordOTPVerification(context.Background(), string(purpose), "success")
	return nil
}

// HasValidOTP reports whether an active, unexpired passcode exists.
func (s *OTPService) HasValidOTP(email string, purpose domain.OTPPurpose) (bool, error) {
	email = normalizeEmail(email)
	record, err := s.otpRepo.FindActive(email, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrOTPRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.now().Before(record.ExpiresAt), nil
}

// PurgeExpired deletes records past their expiry. Advisory housekeeping;
// Verify enforces expiry on its own.
func (s *OTPService) PurgeExpired() (int64, error) {
	deleted, err := s.otpRepo.DeleteExpiredBefore(s.now())
	if err != nil {
		return 0, err
	}
	observability.RecordOTPSweep(context.Background(), deleted)
	return deleted, nil
}

func hashOTPCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
