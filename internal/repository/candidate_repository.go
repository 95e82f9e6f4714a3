package repository

import (
	"errors"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"gorm.io/gorm"
)

var ErrCandidateProfileNotFound = errors.New("candidate profile not found")

type CandidateRepository interface {
	WithTx(tx *gorm.DB) CandidateRepository
	CreateProfile(profile *domain.CandidateProfile) error
	FindByAccountID(accountID uint) (*domain.CandidateProfile, error)
}

type GormCandidateRepository struct{ db *gorm.DB }

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &GormCandidateRepository{db: db}
}

func (r *GormCandidateRepository) WithTx(tx *gorm.DB) CandidateRepository {
	return &GormCandidateRepository{db: tx}
}

func (r *GormCandidateRepository) CreateProfile(profile *domain.CandidateProfile) error {
	return r.db.Create(profile).Error
}

func (r *GormCandidateRepository) FindByAccountID(accountID uint) (*domain.CandidateProfile, error) {
	var profile domain.CandidateProfile
	if err := r.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
