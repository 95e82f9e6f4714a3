package domain

import "time"

type AccountRole string

const (
	RoleCandidate AccountRole = "CANDIDATE"
	RoleEmployer  AccountRole = "EMPLOYER"
	RoleAdmin     AccountRole = "ADMIN"
)

func (r AccountRole) Valid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type AccountStatus string

const (
	StatusPendingEmailVerification AccountStatus = "PENDING_EMAIL_VERIFICATION"
	StatusPendingProfileCompletion AccountStatus = "PENDING_PROFILE_COMPLETION"
	StatusPendingApproval          AccountStatus = "PENDING_APPROVAL"
	StatusActive                   AccountStatus = "ACTIVE"
	StatusBanned                   AccountStatus = "BANNED"
)

// Account is the identity and authorization root. Role is fixed at creation;
// status only moves through the lifecycle transitions owned by the account
// service and the approval service.
type Account struct {
	ID              uint          `gorm:"primaryKey" json:"-"`
	PublicID        string        `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Email           string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string        `gorm:"size:1024;not null" json:"-"`
	Role            AccountRole   `gorm:"size:16;not null" json:"role"`
	Status          AccountStatus `gorm:"size:32;not null;index:idx_accounts_status" json:"status"`
	IsVerified      bool          `gorm:"not null;default:false" json:"is_verified"`
	EmailVerifiedAt *time.Time    `json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

var statusAfterEmailVerification = map[AccountRole]AccountStatus{
	RoleCandidate: StatusActive,
	RoleEmployer:  StatusPendingProfileCompletion,
	RoleAdmin:     StatusActive,
}

// NextStatusAfterEmailVerification resolves the post-verification status for
// a role. Roles without an explicit entry land on ACTIVE.
func NextStatusAfterEmailVerification(role AccountRole) AccountStatus {
	if s, ok := statusAfterEmailVerification[role]; ok {
		return s
	}
	return StatusActive
}

// RedirectHint tells the client which screen to route a freshly logged-in
// account to. Every non-banned status is loginable.
type RedirectHint string

const (
	RedirectVerifyEmail        RedirectHint = "verify-email"
	RedirectCompleteProfile    RedirectHint = "complete-profile"
	RedirectPendingApproval    RedirectHint = "pending-approval"
	RedirectCandidateDashboard RedirectHint = "candidate-dashboard"
	RedirectEmployerDashboard  RedirectHint = "employer-dashboard"
	RedirectAdminDashboard     RedirectHint = "admin-dashboard"
)

var dashboardByRole = map[AccountRole]RedirectHint{
	RoleCandidate: RedirectCandidateDashboard,
	RoleEmployer:  RedirectEmployerDashboard,
	RoleAdmin:     RedirectAdminDashboard,
}

func RedirectFor(status AccountStatus, role AccountRole) RedirectHint {
	switch status {
	case StatusPendingEmailVerification:
		return RedirectVerifyEmail
	case StatusPendingProfileCompletion:
		return RedirectCompleteProfile
	case StatusPendingApproval:
		return RedirectPendingApproval
	}
	if hint, ok := dashboardByRole[role]; ok {
		return hint
	}
	return RedirectCandidateDashboard
}
