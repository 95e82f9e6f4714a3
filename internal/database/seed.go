package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/security"
)

// SeedReport describes what seeding changed, so operators can tell a fresh
// bootstrap from a no-op re-run.
type SeedReport struct {
	CreatedAdmin bool   `json:"created_admin"`
	AdminEmail   string `json:"admin_email,omitempty"`
	Noop         bool   `json:"noop"`
}

// Seed provisions the bootstrap admin account. Admins cannot self-register,
// so the first one has to come from configuration. Re-running is a no-op
// when the account already exists.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	_, err := SeedBootstrapAdmin(db, adminEmail, adminPassword)
	return err
}

func SeedBootstrapAdmin(db *gorm.DB, adminEmail, adminPassword string) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "seed", time.Since(start))
	}()

	email := strings.TrimSpace(strings.ToLower(adminEmail))
	report := &SeedReport{AdminEmail: email, Noop: true}
	if email == "" {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "skipped")
		return report, nil
	}

	var existing domain.Account
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
		return report, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
		return nil, err
	}

	if adminPassword == "" {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
		return nil, fmt.Errorf("bootstrap admin password is required to create %s", email)
	}
	hash, err := security.HashPassword(adminPassword)
	if err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
		return nil, fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.Account{
		PublicID:        uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		Role:            domain.RoleAdmin,
		Status:          domain.StatusActive,
		IsVerified:      true,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(&admin).Error; err != nil {
		// A concurrent instance may have created it first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
			return report, nil
		}
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
		return nil, fmt.Errorf("create bootstrap admin: %w", err)
	}

	report.CreatedAdmin = true
	report.Noop = false
	observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
	return report, nil
}
