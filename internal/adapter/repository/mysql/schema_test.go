package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no MySQL ENUMs) ---

type userSQLite struct {
	ID            uint64         `gorm:"primaryKey;column:id"`
	UserID        string         `gorm:"size:32;column:user_id"`
	AuthID        string         `gorm:"size:128;column:auth_id"`
	Email         string         `gorm:"column:email"`
	Name          string         `gorm:"column:name"`
	Picture       string         `gorm:"column:picture"`
	Phone         string         `gorm:"column:phone"`
	Address       string         `gorm:"column:address"`
	Occupation    string         `gorm:"column:occupation"`
	Employer      string         `gorm:"column:employer"`
	MonthlyIncome float64        `gorm:"column:monthly_income"`
	ProfileStatus string         `gorm:"type:text;column:profile_status"` // ← no enum
	KYCStatus     string         `gorm:"type:text;column:kyc_status"`
	IsAdmin       bool           `gorm:"column:is_admin"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

type documentSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	UserRef         uint64         `gorm:"column:user_ref"`
	DocType         string         `gorm:"column:doc_type"`
	Status          string         `gorm:"type:text;column:status"`
	RejectionReason string         `gorm:"column:rejection_reason"`
	FilePath        string         `gorm:"column:file_path"`
	FileSize        int64          `gorm:"column:file_size"`
	MimeType        string         `gorm:"column:mime_type"`
	UploadDate      time.Time      `gorm:"column:upload_date"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (documentSQLite) TableName() string { return "documents" }

type applicationSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	ApplicationID     string         `gorm:"size:32;column:application_id"`
	UserID            string         `gorm:"size:32;column:user_id"`
	Amount            float64        `gorm:"column:amount"`
	TenureMonths      int            `gorm:"column:tenure_months"`
	InterestRate      float64        `gorm:"column:interest_rate"`
	Intent            string         `gorm:"column:intent"`
	Age               int            `gorm:"column:age"`
	Income            float64        `gorm:"column:income"`
	Ownership         string         `gorm:"column:ownership"`
	EmploymentYears   float64        `gorm:"column:employment_years"`
	CreditHistYears   float64        `gorm:"column:credit_hist_years"`
	LoanPercentIncome float64        `gorm:"column:loan_percent_income"`
	EligibilityScore  *float64       `gorm:"column:eligibility_score"`
	IsEligible        *bool          `gorm:"column:is_eligible"`
	RiskLevel         string         `gorm:"column:risk_level"`
	Status            string         `gorm:"type:text;column:status"` // ← no enum
	ReviewNotes       string         `gorm:"column:review_notes"`
	RejectionReason   string         `gorm:"column:rejection_reason"`
	AssignedTo        string         `gorm:"column:assigned_to"`
	Version           int            `gorm:"column:version"`
	StatusUpdatedAt   time.Time      `gorm:"column:status_updated_at"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (applicationSQLite) TableName() string { return "loan_applications" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schemas, never the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userSQLite{}, &documentSQLite{}, &applicationSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
