package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirewire/hirewire-backend/internal/domain"
)

func newAccountForTest(email string, role domain.AccountRole, status domain.AccountStatus) *domain.Account {
	return &domain.Account{
		PublicID:     uuid.NewString(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         role,
		Status:       status,
	}
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	account := newAccountForTest("jane@example.com", domain.RoleCandidate, domain.StatusPendingEmailVerification)
	if err := repo.Create(account); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := repo.FindByEmail("jane@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != account.ID {
		t.Fatalf("email lookup returned wrong account: %d", byEmail.ID)
	}

	byPublic, err := repo.FindByPublicID(account.PublicID)
	if err != nil {
		t.Fatalf("find by public id: %v", err)
	}
	if byPublic.ID != account.ID {
		t.Fatalf("public id lookup returned wrong account: %d", byPublic.ID)
	}

	if _, err := repo.FindByEmail("nobody@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryRejectsDuplicateEmail(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	if err := repo.Create(newAccountForTest("dup@example.com", domain.RoleCandidate, domain.StatusPendingEmailVerification)); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(newAccountForTest("dup@example.com", domain.RoleEmployer, domain.StatusPendingEmailVerification)); err == nil {
		t.Fatal("expected duplicate email to fail")
	}
}

func TestAccountRepositoryTransitionStatusGuards(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	account := newAccountForTest("emp@example.com", domain.RoleEmployer, domain.StatusPendingApproval)
	if err := repo.Create(account); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.TransitionStatus(account.ID, domain.StatusPendingApproval, domain.StatusActive); err != nil {
		t.Fatalf("transition: %v", err)
	}
	// Same transition again must lose to the first one.
	err := repo.TransitionStatus(account.ID, domain.StatusPendingApproval, domain.StatusActive)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict on replay, got %v", err)
	}

	if err := repo.TransitionStatusExcept(account.ID, domain.StatusBanned, domain.StatusBanned); err != nil {
		t.Fatalf("ban: %v", err)
	}
	err = repo.TransitionStatusExcept(account.ID, domain.StatusBanned, domain.StatusBanned)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict banning a banned account, got %v", err)
	}
}

func TestAccountRepositoryMarkEmailVerifiedOnce(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	account := newAccountForTest("verify@example.com", domain.RoleEmployer, domain.StatusPendingEmailVerification)
	if err := repo.Create(account); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.MarkEmailVerified(account.ID, domain.StatusPendingProfileCompletion, now); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	loaded, err := repo.FindByID(account.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.IsVerified || loaded.Status != domain.StatusPendingProfileCompletion || loaded.EmailVerifiedAt == nil {
		t.Fatalf("unexpected account after verification: %+v", loaded)
	}

	err = repo.MarkEmailVerified(account.ID, domain.StatusPendingProfileCompletion, now)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict on second verification, got %v", err)
	}
}

func TestAccountRepositoryListPagedFilters(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	for i := 0; i < 3; i++ {
		a := newAccountForTest(fmt.Sprintf("candidate%d@example.com", i), domain.RoleCandidate, domain.StatusActive)
		if err := repo.Create(a); err != nil {
			t.Fatalf("create candidate %d: %v", i, err)
		}
	}
	banned := newAccountForTest("banned@example.com", domain.RoleEmployer, domain.StatusBanned)
	if err := repo.Create(banned); err != nil {
		t.Fatalf("create banned: %v", err)
	}

	page, err := repo.ListPaged(AccountListQuery{
		PageRequest: PageRequest{Page: 1, PageSize: 2},
		Role:        domain.RoleCandidate,
	})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page result: total=%d pages=%d items=%d", page.Total, page.TotalPages, len(page.Items))
	}

	page, err = repo.ListPaged(AccountListQuery{Status: domain.StatusBanned})
	if err != nil {
		t.Fatalf("list banned: %v", err)
	}
	if page.Total != 1 || page.Items[0].Email != "banned@example.com" {
		t.Fatalf("unexpected banned listing: %+v", page)
	}
}
