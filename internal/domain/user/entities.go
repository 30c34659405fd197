package user

import (
	"time"

	"gorm.io/gorm"
)

type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileComplete ProfileStatus = "complete"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`

	// Identity fields, immutable after creation (set from the external auth
	// provider on first login).
	AuthID  string `gorm:"size:128;uniqueIndex:ux_users_auth_id_active" json:"-"`
	Email   string `gorm:"size:255" json:"email"`
	Name    string `gorm:"size:255" json:"name"`
	Picture string `gorm:"type:text" json:"picture"`

	// Profile fields, applicant-supplied.
	Phone         string  `gorm:"size:32" json:"phone"`
	Address       string  `gorm:"type:text" json:"address"`
	Occupation    string  `gorm:"size:128" json:"occupation"`
	Employer      string  `gorm:"size:255" json:"employer"`
	MonthlyIncome float64 `gorm:"type:decimal(18,2)" json:"monthly_income"`

	ProfileStatus ProfileStatus `gorm:"type:enum('pending','complete');default:'pending'" json:"profile_status"`
	KYCStatus     KYCStatus     `gorm:"type:enum('pending','verified','rejected');default:'pending'" json:"kyc_status"`
	IsAdmin       bool          `gorm:"default:false" json:"is_admin"`

	Documents []Document `gorm:"foreignKey:UserRef" json:"documents"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// DeriveProfileStatus recomputes the derived status: complete iff every
// applicant-supplied profile field is non-empty.
func (u *User) DeriveProfileStatus() ProfileStatus {
	if u.Phone != "" && u.Address != "" && u.Occupation != "" && u.Employer != "" && u.MonthlyIncome > 0 {
		return ProfileComplete
	}
	return ProfilePending
}
