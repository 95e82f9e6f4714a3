package repository

import (
	"errors"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"gorm.io/gorm"
)

var ErrEmployerProfileNotFound = errors.New("employer profile not found")

type EmployerRepository interface {
	WithTx(tx *gorm.DB) EmployerRepository
	CreateProfile(profile *domain.EmployerProfile) error
	FindByAccountID(accountID uint) (*domain.EmployerProfile, error)
	FindByProfileID(profileID uint) (*domain.EmployerProfile, error)
	SaveProfile(profile *domain.EmployerProfile) error
	UpdateProfileStatus(profileID uint, status domain.EmployerProfileStatus) error
	CreatePendingEdits(edits []domain.PendingEdit) error
	ListPendingEdits(profileID uint) ([]domain.PendingEdit, error)
	DeletePendingEdits(profileID uint) error
	CreateApprovalLog(entry *domain.ApprovalLog) error
	ListApprovalLogs(profileID uint) ([]domain.ApprovalLog, error)
}

type GormEmployerRepository struct{ db *gorm.DB }

func NewEmployerRepository(db *gorm.DB) EmployerRepository {
	return &GormEmployerRepository{db: db}
}

func (r *GormEmployerRepository) WithTx(tx *gorm.DB) EmployerRepository {
	return &GormEmployerRepository{db: tx}
}

func (r *GormEmployerRepository) CreateProfile(profile *domain.EmployerProfile) error {
	return r.db.Create(profile).Error
}

func (r *GormEmployerRepository) FindByAccountID(accountID uint) (*domain.EmployerProfile, error) {
	var profile domain.EmployerProfile
	if err := r.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *GormEmployerRepository) FindByProfileID(profileID uint) (*domain.EmployerProfile, error) {
	var profile domain.EmployerProfile
	if err := r.db.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *GormEmployerRepository) SaveProfile(profile *domain.EmployerProfile) error {
	return r.db.Save(profile).Error
}

func (r *GormEmployerRepository) UpdateProfileStatus(profileID uint, status domain.EmployerProfileStatus) error {
	res := r.db.Model(&domain.EmployerProfile{}).
		Where("id = ?", profileID).
		Update("profile_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEmployerProfileNotFound
	}
	return nil
}

func (r *GormEmployerRepository) CreatePendingEdits(edits []domain.PendingEdit) error {
	if len(edits) == 0 {
		return nil
	}
	return r.db.Create(&edits).Error
}

func (r *GormEmployerRepository) ListPendingEdits(profileID uint) ([]domain.PendingEdit, error) {
	var edits []domain.PendingEdit
	err := r.db.Where("profile_id = ?", profileID).Order("id ASC").Find(&edits).Error
	return edits, err
}

func (r *GormEmployerRepository) DeletePendingEdits(profileID uint) error {
	return r.db.Where("profile_id = ?", profileID).Delete(&domain.PendingEdit{}).Error
}

func (r *GormEmployerRepository) CreateApprovalLog(entry *domain.ApprovalLog) error {
	return r.db.Create(entry).Error
}

func (r *GormEmployerRepository) ListApprovalLogs(profileID uint) ([]domain.ApprovalLog, error) {
	var logs []domain.ApprovalLog
	err := r.db.Where("profile_id = ?", profileID).Order("id DESC").Find(&logs).Error
	return logs, err
}
