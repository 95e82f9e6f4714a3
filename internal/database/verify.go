package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirewire/hirewire-backend/internal/domain"
)

// VerifyAccountEmail marks an account's email verified without an OTP
// exchange. Local development helper for the seed tool; it applies the same
// post-verification status transition the account service does.
func VerifyAccountEmail(db *gorm.DB, email string) error {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" {
		return fmt.Errorf("email is required")
	}

	var account domain.Account
	if err := db.Where("email = ?", normalized).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no account for %s", normalized)
		}
		return err
	}
	if account.IsVerified {
		return nil
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"is_verified":       true,
		"email_verified_at": now,
	}
	if account.Status == domain.StatusPendingEmailVerification {
		updates["status"] = domain.NextStatusAfterEmailVerification(account.Role)
	}
	if err := db.Model(&account).Updates(updates).Error; err != nil {
		return fmt.Errorf("mark %s verified: %w", normalized, err)
	}
	return nil
}
