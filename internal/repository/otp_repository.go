package repository

import (
	"errors"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"gorm.io/gorm"
)

var ErrOTPRecordNotFound = errors.New("otp record not found")

type OTPRepository interface {
	WithTx(tx *gorm.DB) OTPRepository
	Create(record *domain.OTPRecord) error
	// FindActive returns the newest record for (email, purpose) that is
	// neither used nor verified, regardless of expiry. Expiry is judged by
	// the caller so an expired code answers differently than a missing one.
	FindActive(email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error)
	InvalidateActive(email string, purpose domain.OTPPurpose, now time.Time) error
	CountIssuedSince(email string, purpose domain.OTPPurpose, since time.Time) (int64, error)
	IncrementAttempts(id uint) error
	MarkVerified(id uint, now time.Time) error
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

type GormOTPRepository struct{ db *gorm.DB }

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &GormOTPRepository{db: db}
}

func (r *GormOTPRepository) WithTx(tx *gorm.DB) OTPRepository {
	return &GormOTPRepository{db: tx}
}

func (r *GormOTPRepository) Create(record *domain.OTPRecord) error {
	return r.db.Create(record).Error
}

func (r *GormOTPRepository) FindActive(email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	var record domain.OTPRecord
	err := r.db.Where("email = ? AND purpose = ? AND is_used = ? AND is_verified = ?",
		email, purpose, false, false).
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *GormOTPRepository) InvalidateActive(email string, purpose domain.OTPPurpose, now time.Time) error {
	return r.db.Model(&domain.OTPRecord{}).
		Where("email = ? AND purpose = ? AND is_used = ? AND is_verified = ?",
			email, purpose, false, false).
		Updates(map[string]any{"is_used": true, "updated_at": now}).Error
}

func (r *GormOTPRepository) CountIssuedSince(email string, purpose domain.OTPPurpose, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.OTPRecord{}).
		Where("email = ? AND purpose = ? AND created_at >= ?", email, purpose, since).
		Count(&count).Error
	return count, err
}

func (r *GormOTPRepository) IncrementAttempts(id uint) error {
	res := r.db.Model(&domain.OTPRecord{}).
		Where("id = ?", id).
		Update("attempt_count", gorm.Expr("attempt_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOTPRecordNotFound
	}
	return nil
}

// MarkVerified consumes the record. The active-state guard in the WHERE
// clause means only one of two racing verifications can succeed.
func (r *GormOTPRepository) MarkVerified(id uint, now time.Time) error {
	res := r.db.Model(&domain.OTPRecord{}).
		Where("id = ? AND is_used = ? AND is_verified = ?", id, false, false).
		Updates(map[string]any{
			"is_used":     true,
			"is_verified": true,
			"verified_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOTPRecordNotFound
	}
	return nil
}

func (r *GormOTPRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", cutoff).Delete(&domain.OTPRecord{})
	return res.RowsAffected, res.Error
}
