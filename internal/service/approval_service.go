package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/repository"

	"gorm.io/gorm"
)

// ApprovalService drives the employer approval workflow: new-profile
// approval after profile completion, and staged field edits on an already
// approved profile. The two paths are mutually exclusive per employer.
type ApprovalService struct {
	db           *gorm.DB
	accountRepo  repository.AccountRepository
	employerRepo repository.EmployerRepository
	logger       *slog.Logger
	now          func() time.Time
}

func NewApprovalService(
	db *gorm.DB,
	accountRepo repository.AccountRepository,
	employerRepo repository.EmployerRepository,
	logger *slog.Logger,
) *ApprovalService {
	return &ApprovalService{
		db:           db,
		accountRepo:  accountRepo,
		employerRepo: employerRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type ProfileInput struct {
	CompanyName string
	Website     string
	Industry    string
	Location    string
	About       string
}

// FieldChange is one requested profile field edit.
type FieldChange struct {
	Field domain.EditableField
	Value string
}

// CompleteProfile fills in the employer profile and submits the account for
// admin approval.
func (s *ApprovalService) CompleteProfile(publicID string, input ProfileInput) (*domain.EmployerProfile, error) {
	account, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return nil, err
	}

	profile.CompanyName = strings.TrimSpace(input.CompanyName)
	profile.Website = strings.TrimSpace(input.Website)
	profile.Industry = strings.TrimSpace(input.Industry)
	profile.Location = strings.TrimSpace(input.Location)
	profile.About = strings.TrimSpace(input.About)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.WithTx(tx).TransitionStatus(
			account.ID, domain.StatusPendingProfileCompletion, domain.StatusPendingApproval); err != nil {
			return err
		}
		return s.employerRepo.WithTx(tx).SaveProfile(profile)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	return profile, nil
}

// StageEdits records field-level changes on an approved profile and parks
// the profile until an admin decides. Unchanged fields are skipped.
func (s *ApprovalService) StageEdits(publicID string, changes []FieldChange) ([]domain.PendingEdit, error) {
	_, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if profile.ProfileStatus != domain.ProfileApproved {
		return nil, ErrInvalidState
	}

	edits := make([]domain.PendingEdit, 0, len(changes))
	for _, change := range changes {
		if !change.Field.Valid() {
			return nil, ErrUnknownEditField
		}
		old := change.Field.Current(profile)
		value := strings.TrimSpace(change.Value)
		if value == old {
			continue
		}
		edits = append(edits, domain.PendingEdit{
			ProfileID: profile.ID,
			FieldName: change.Field,
			OldValue:  old,
			NewValue:  value,
		})
	}
	if len(edits) == 0 {
		return nil, ErrNoPendingEdits
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.employerRepo.WithTx(tx)
		if err := repo.CreatePendingEdits(edits); err != nil {
			return err
		}
		return repo.UpdateProfileStatus(profile.ID, domain.ProfilePendingEditApproval)
	})
	if err != nil {
		return nil, err
	}
	return edits, nil
}

// ApproveEmployer activates an employer awaiting new-profile approval.
func (s *ApprovalService) ApproveEmployer(actorID uint, publicID, reason string) error {
	account, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.WithTx(tx).TransitionStatus(
			account.ID, domain.StatusPendingApproval, domain.StatusActive); err != nil {
			return err
		}
		repo := s.employerRepo.WithTx(tx)
		if err := repo.UpdateProfileStatus(profile.ID, domain.ProfileApproved); err != nil {
			return err
		}
		return repo.CreateApprovalLog(&domain.ApprovalLog{
			ProfileID: profile.ID,
			ActorID:   actorID,
			Action:    domain.ApprovalActionApproved,
			Scope:     domain.ApprovalScopeNewProfile,
			Reason:    strings.TrimSpace(reason),
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrInvalidState
		}
		return err
	}
	observability.RecordApprovalDecision(context.Background(), "new_profile", "approved")
	return nil
}

// RejectEmployer sends the employer back to profile completion. A reason is
// mandatory.
func (s *ApprovalService) RejectEmployer(actorID uint, publicID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	account, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.WithTx(tx).TransitionStatus(
			account.ID, domain.StatusPendingApproval, domain.StatusPendingProfileCompletion); err != nil {
			return err
		}
		return s.employerRepo.WithTx(tx).CreateApprovalLog(&domain.ApprovalLog{
			ProfileID: profile.ID,
			ActorID:   actorID,
			Action:    domain.ApprovalActionRejected,
			Scope:     domain.ApprovalScopeNewProfile,
			Reason:    reason,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrInvalidState
		}
		return err
	}
	observability.RecordApprovalDecision(context.Background(), "new_profile", "rejected")
	return nil
}

// ApproveEdits applies every staged edit to the live profile, clears the
// staging records, and re-approves the profile. All or nothing.
func (s *ApprovalService) ApproveEdits(actorID uint, publicID string) error {
	_, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return err
	}
	if profile.ProfileStatus != domain.ProfilePendingEditApproval {
		return ErrNoPendingEdits
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.employerRepo.WithTx(tx)
		edits, err := repo.ListPendingEdits(profile.ID)
		if err != nil {
			return err
		}
		if len(edits) == 0 {
			return ErrNoPendingEdits
		}
		for _, edit := range edits {
			if !edit.FieldName.Apply(profile, edit.NewValue) {
				return ErrUnknownEditField
			}
		}
		profile.ProfileStatus = domain.ProfileApproved
		if err := repo.SaveProfile(profile); err != nil {
			return err
		}
		if err := repo.DeletePendingEdits(profile.ID); err != nil {
			return err
		}
		return repo.CreateApprovalLog(&domain.ApprovalLog{
			ProfileID: profile.ID,
			ActorID:   actorID,
			Action:    domain.ApprovalActionApproved,
			Scope:     domain.ApprovalScopeEdits,
		})
	})
	if err != nil {
		return err
	}
	observability.RecordApprovalDecision(context.Background(), "edits", "approved")
	return nil
}

// RejectEdits discards every staged edit; the live values stand.
func (s *ApprovalService) RejectEdits(actorID uint, publicID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	_, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return err
	}
	if profile.ProfileStatus != domain.ProfilePendingEditApproval {
		return ErrNoPendingEdits
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.employerRepo.WithTx(tx)
		if err := repo.DeletePendingEdits(profile.ID); err != nil {
			return err
		}
		if err := repo.UpdateProfileStatus(profile.ID, domain.ProfileApproved); err != nil {
			return err
		}
		return repo.CreateApprovalLog(&domain.ApprovalLog{
			ProfileID: profile.ID,
			ActorID:   actorID,
			Action:    domain.ApprovalActionRejected,
			Scope:     domain.ApprovalScopeEdits,
			Reason:    reason,
		})
	})
	if err != nil {
		return err
	}
	observability.RecordApprovalDecision(context.Background(), "edits", "rejected")
	return nil
}

func (s *ApprovalService) Profile(publicID string) (*domain.EmployerProfile, error) {
	_, profile, err := s.employerByPublicID(publicID)
	return profile, err
}

func (s *ApprovalService) PendingEdits(publicID string) ([]domain.PendingEdit, error) {
	_, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	return s.employerRepo.ListPendingEdits(profile.ID)
}

func (s *ApprovalService) ApprovalLog(publicID string) ([]domain.ApprovalLog, error) {
	_, profile, err := s.employerByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	return s.employerRepo.ListApprovalLogs(profile.ID)
}

func (s *ApprovalService) employerByPublicID(publicID string) (*domain.Account, *domain.EmployerProfile, error) {
	account, err := s.accountRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}
	if account.Role != domain.RoleEmployer {
		return nil, nil, ErrInvalidState
	}
	profile, err := s.employerRepo.FindByAccountID(account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployerProfileNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}
	return account, profile, nil
}
