package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
)

func TestOTPRepositoryFindActiveReturnsNewest(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewOTPRepository(db)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h1", ExpiresAt: now.Add(5 * time.Minute)}
	second := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h2", ExpiresAt: now.Add(5 * time.Minute)}
	for _, rec := range []*domain.OTPRecord{first, second} {
		if err := repo.Create(rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	active, err := repo.FindActive("a@example.com", domain.PurposeEmailVerification)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected newest record %d, got %d", second.ID, active.ID)
	}

	if _, err := repo.FindActive("a@example.com", domain.PurposePasswordReset); !errors.Is(err, ErrOTPRecordNotFound) {
		t.Fatalf("expected ErrOTPRecordNotFound for other purpose, got %v", err)
	}
}

func TestOTPRepositoryInvalidateActiveScopedToPurpose(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewOTPRepository(db)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	verify := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h1", ExpiresAt: now.Add(5 * time.Minute)}
	reset := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposePasswordReset, CodeHash: "h2", ExpiresAt: now.Add(10 * time.Minute)}
	for _, rec := range []*domain.OTPRecord{verify, reset} {
		if err := repo.Create(rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := repo.InvalidateActive("a@example.com", domain.PurposeEmailVerification, now); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := repo.FindActive("a@example.com", domain.PurposeEmailVerification); !errors.Is(err, ErrOTPRecordNotFound) {
		t.Fatalf("expected verification record invalidated, got %v", err)
	}
	if _, err := repo.FindActive("a@example.com", domain.PurposePasswordReset); err != nil {
		t.Fatalf("password reset record should stay active: %v", err)
	}
}

func TestOTPRepositoryMarkVerifiedConsumesOnce(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewOTPRepository(db)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rec := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h1", ExpiresAt: now.Add(5 * time.Minute)}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.IncrementAttempts(rec.ID); err != nil {
		t.Fatalf("increment attempts: %v", err)
	}
	if err := repo.MarkVerified(rec.ID, now); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	if err := repo.MarkVerified(rec.ID, now); !errors.Is(err, ErrOTPRecordNotFound) {
		t.Fatalf("expected second consume to fail, got %v", err)
	}

	var loaded domain.OTPRecord
	if err := db.First(&loaded, rec.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.IsUsed || !loaded.IsVerified || loaded.AttemptCount != 1 || loaded.VerifiedAt == nil {
		t.Fatalf("unexpected record after consume: %+v", loaded)
	}
}

func TestOTPRepositoryCountAndPurge(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewOTPRepository(db)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h", ExpiresAt: now.Add(-time.Minute)}
		if err := repo.Create(rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	fresh := &domain.OTPRecord{Email: "a@example.com", Purpose: domain.PurposeEmailVerification, CodeHash: "h", ExpiresAt: now.Add(5 * time.Minute)}
	if err := repo.Create(fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	count, err := repo.CountIssuedSince("a@example.com", domain.PurposeEmailVerification, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 issued, got %d", count)
	}

	deleted, err := repo.DeleteExpiredBefore(now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 purged, got %d", deleted)
	}
	if _, err := repo.FindActive("a@example.com", domain.PurposeEmailVerification); err != nil {
		t.Fatalf("fresh record should survive purge: %v", err)
	}
}
