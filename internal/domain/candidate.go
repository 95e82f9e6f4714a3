package domain

import "time"

// CandidateProfile is the candidate-side profile shell created atomically
// with the account at registration.
type CandidateProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Headline  string    `gorm:"size:255" json:"headline"`
	Location  string    `gorm:"size:255" json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
