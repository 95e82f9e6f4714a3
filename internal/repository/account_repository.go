package repository

import (
	"errors"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")

	// ErrStatusConflict means a guarded status transition matched no row,
	// i.e. the account was not in the expected source status.
	ErrStatusConflict = errors.New("account status conflict")
)

// AccountListQuery filters the admin account listing. Empty fields match all.
type AccountListQuery struct {
	PageRequest
	Role   domain.AccountRole
	Status domain.AccountStatus
	Email  string
}

type AccountRepository interface {
	WithTx(tx *gorm.DB) AccountRepository
	Create(account *domain.Account) error
	FindByID(id uint) (*domain.Account, error)
	FindByPublicID(publicID string) (*domain.Account, error)
	FindByEmail(email string) (*domain.Account, error)
	UpdateFields(id uint, fields map[string]any) error
	TransitionStatus(id uint, from, to domain.AccountStatus) error
	TransitionStatusExcept(id uint, notFrom, to domain.AccountStatus) error
	MarkEmailVerified(id uint, next domain.AccountStatus, now time.Time) error
	TouchLastLogin(id uint, now time.Time) error
	ListPaged(q AccountListQuery) (*PageResult[domain.Account], error)
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) WithTx(tx *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: tx}
}

func (r *GormAccountRepository) Create(account *domain.Account) error {
	return r.db.Create(account).Error
}

func (r *GormAccountRepository) FindByID(id uint) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) FindByPublicID(publicID string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.Where("public_id = ?", publicID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) FindByEmail(email string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) UpdateFields(id uint, fields map[string]any) error {
	res := r.db.Model(&domain.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// TransitionStatus moves an account from one status to another. The source
// status is part of the WHERE clause so concurrent transitions cannot both
// win; the loser gets ErrStatusConflict.
func (r *GormAccountRepository) TransitionStatus(id uint, from, to domain.AccountStatus) error {
	res := r.db.Model(&domain.Account{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// TransitionStatusExcept moves an account to a status from any status other
// than notFrom. Used for banning, which is legal from every non-banned state.
func (r *GormAccountRepository) TransitionStatusExcept(id uint, notFrom, to domain.AccountStatus) error {
	res := r.db.Model(&domain.Account{}).
		Where("id = ? AND status <> ?", id, notFrom).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// MarkEmailVerified flips the verification flag and advances the lifecycle
// status in one guarded update, so a replayed verification cannot apply twice.
func (r *GormAccountRepository) MarkEmailVerified(id uint, next domain.AccountStatus, now time.Time) error {
	res := r.db.Model(&domain.Account{}).
		Where("id = ? AND is_verified = ? AND status = ?", id, false, domain.StatusPendingEmailVerification).
		Updates(map[string]any{
			"is_verified":       true,
			"email_verified_at": now,
			"status":            next,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *GormAccountRepository) TouchLastLogin(id uint, now time.Time) error {
	return r.db.Model(&domain.Account{}).Where("id = ?", id).
		Update("last_login_at", now).Error
}

func (r *GormAccountRepository) ListPaged(q AccountListQuery) (*PageResult[domain.Account], error) {
	page := normalizePageRequest(q.PageRequest)
	tx := r.db.Model(&domain.Account{})
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Email != "" {
		tx = tx.Where("email LIKE ?", "%"+q.Email+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	var accounts []domain.Account
	err := tx.Order("id ASC").Limit(page.PageSize).Offset(page.offset()).Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return &PageResult[domain.Account]{
		Items:      accounts,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}
