package domain

import "time"

type EmployerProfileStatus string

const (
	ProfileApproved            EmployerProfileStatus = "APPROVED"
	ProfilePendingEditApproval EmployerProfileStatus = "PENDING_EDIT_APPROVAL"
)

// EmployerProfile is the employer-side profile attached 1:1 to an account.
// profile_status is PENDING_EDIT_APPROVAL exactly while pending edits exist.
type EmployerProfile struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	AccountID     uint                  `gorm:"uniqueIndex;not null" json:"account_id"`
	CompanyName   string                `gorm:"size:255" json:"company_name"`
	Website       string                `gorm:"size:512" json:"website"`
	Industry      string                `gorm:"size:255" json:"industry"`
	Location      string                `gorm:"size:255" json:"location"`
	About         string                `gorm:"size:4096" json:"about"`
	ProfileStatus EmployerProfileStatus `gorm:"size:32;not null;default:APPROVED" json:"profile_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// EditableField enumerates the employer profile fields that can be staged as
// pending edits. Each field carries its own typed read/apply pair so edit
// application never goes through reflective field writes.
type EditableField string

const (
	FieldCompanyName EditableField = "company_name"
	FieldWebsite     EditableField = "website"
	FieldIndustry    EditableField = "industry"
	FieldLocation    EditableField = "location"
	FieldAbout       EditableField = "about"
)

func (f EditableField) Valid() bool {
	switch f {
	case FieldCompanyName, FieldWebsite, FieldIndustry, FieldLocation, FieldAbout:
		return true
	}
	return false
}

// Current returns the live value of the field on the profile.
func (f EditableField) Current(p *EmployerProfile) string {
	switch f {
	case FieldCompanyName:
		return p.CompanyName
	case FieldWebsite:
		return p.Website
	case FieldIndustry:
		return p.Industry
	case FieldLocation:
		return p.Location
	case FieldAbout:
		return p.About
	}
	return ""
}

// Apply writes value into the field on the profile. Returns false for an
// unknown field so callers can abort the whole batch.
func (f EditableField) Apply(p *EmployerProfile, value string) bool {
	switch f {
	case FieldCompanyName:
		p.CompanyName = value
	case FieldWebsite:
		p.Website = value
	case FieldIndustry:
		p.Industry = value
	case FieldLocation:
		p.Location = value
	case FieldAbout:
		p.About = value
	default:
		return false
	}
	return true
}

// PendingEdit is one staged field-level change awaiting admin action.
type PendingEdit struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ProfileID uint          `gorm:"not null;index:idx_pending_edits_profile" json:"profile_id"`
	FieldName EditableField `gorm:"size:64;not null" json:"field_name"`
	OldValue  string        `gorm:"size:4096" json:"old_value"`
	NewValue  string        `gorm:"size:4096" json:"new_value"`
	CreatedAt time.Time     `json:"created_at"`
}

type ApprovalAction string

const (
	ApprovalActionApproved ApprovalAction = "APPROVED"
	ApprovalActionRejected ApprovalAction = "REJECTED"
)

type ApprovalScope string

const (
	ApprovalScopeNewProfile ApprovalScope = "NEW_PROFILE"
	ApprovalScopeEdits      ApprovalScope = "PROFILE_EDITS"
)

// ApprovalLog is the audit trail of admin approval decisions.
type ApprovalLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProfileID uint           `gorm:"not null;index:idx_approval_logs_profile" json:"profile_id"`
	ActorID   uint           `gorm:"not null" json:"actor_id"`
	Action    ApprovalAction `gorm:"size:16;not null" json:"action"`
	Scope     ApprovalScope  `gorm:"size:32;not null" json:"scope"`
	Reason    string         `gorm:"size:1024" json:"reason,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
