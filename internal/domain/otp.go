package domain

import "time"

type OTPPurpose string

const (
	PurposeEmailVerification OTPPurpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     OTPPurpose = "PASSWORD_RESET"
	PurposeEmailChange       OTPPurpose = "EMAIL_CHANGE"
)

func (p OTPPurpose) Valid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset, PurposeEmailChange:
		return true
	}
	return false
}

// OTPRecord is one passcode issuance. Only the one-way hash of the code is
// stored. For a given (email, purpose) at most one record may have
// is_used=false AND is_verified=false; issuing a new code marks every prior
// active record used first.
type OTPRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;not null;index:idx_otp_email_purpose" json:"email"`
	Purpose      OTPPurpose `gorm:"size:32;not null;index:idx_otp_email_purpose" json:"purpose"`
	CodeHash     string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	IsUsed       bool       `gorm:"not null;default:false" json:"is_used"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	AttemptCount int        `gorm:"not null;default:0" json:"attempt_count"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
