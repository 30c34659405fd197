package application

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusDocumentsPending Status = "documents_pending"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
)

type HomeOwnership string

const (
	OwnershipRent     HomeOwnership = "RENT"
	OwnershipOwn      HomeOwnership = "OWN"
	OwnershipMortgage HomeOwnership = "MORTGAGE"
	OwnershipOther    HomeOwnership = "OTHER"
)

type LoanIntent string

const (
	IntentPersonal          LoanIntent = "PERSONAL"
	IntentEducation         LoanIntent = "EDUCATION"
	IntentMedical           LoanIntent = "MEDICAL"
	IntentVenture           LoanIntent = "VENTURE"
	IntentHomeImprovement   LoanIntent = "HOMEIMPROVEMENT"
	IntentDebtConsolidation LoanIntent = "DEBTCONSOLIDATION"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

const (
	// MaxLoanAmount is the platform-wide cap on a single application.
	MaxLoanAmount int64 = 100_000_000

	// DisplayEligibleThreshold routes the wizard result step: at or above it
	// the applicant proceeds to document verification, below it to the
	// rejection analysis. Intentionally distinct from
	// ApprovalEligibleThreshold; the two policies are independent.
	DisplayEligibleThreshold float64 = 50

	// ApprovalEligibleThreshold drives the stored IsEligible flag.
	ApprovalEligibleThreshold float64 = 70
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid application status transition")
	ErrVersionConflict   = errors.New("application modified concurrently")
)

type LoanApplication struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string `gorm:"size:32;uniqueIndex:ux_applications_app_id_active" json:"application_id"`
	UserID        string `gorm:"size:32;index:idx_applications_user_active" json:"user_id"`

	// Loan terms.
	Amount       float64    `gorm:"type:decimal(18,2)" json:"loan_amnt"`
	TenureMonths int        `json:"tenure_months"`
	InterestRate float64    `gorm:"type:decimal(6,3)" json:"loan_int_rate"`
	Intent       LoanIntent `gorm:"size:32" json:"loan_intent"`

	// Applicant snapshot captured at submission time.
	Age               int           `json:"age"`
	Income            float64       `gorm:"type:decimal(18,2)" json:"income"`
	Ownership         HomeOwnership `gorm:"size:16" json:"ownership"`
	EmploymentYears   float64       `gorm:"type:decimal(5,2)" json:"employment_len"`
	CreditHistYears   float64       `gorm:"type:decimal(5,2)" json:"cred_hist_len"`
	LoanPercentIncome float64       `gorm:"type:decimal(8,2)" json:"loan_percent_income"`

	// Scoring outcome; the three fields are only ever written together.
	EligibilityScore *float64  `gorm:"type:decimal(6,2)" json:"eligibility_score,omitempty"`
	IsEligible       *bool     `json:"is_eligible,omitempty"`
	RiskLevel        RiskLevel `gorm:"size:8" json:"risk_level,omitempty"`

	Status          Status `gorm:"type:enum('draft','submitted','documents_pending','under_review','approved','rejected');default:'draft'" json:"status"`
	ReviewNotes     string `gorm:"type:text" json:"review_notes,omitempty"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`
	AssignedTo      string `gorm:"size:32" json:"assigned_to,omitempty"`

	// Version guards against lost updates between applicant and admin writers.
	Version         int            `gorm:"default:1" json:"-"`
	StatusUpdatedAt time.Time      `json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanApplication) TableName() string { return "loan_applications" }

// transitions is the canonical status machine. Keys are from-states, values
// the permitted to-states.
var transitions = map[Status][]Status{
	StatusDraft:            {StatusDraft, StatusSubmitted},
	StatusSubmitted:        {StatusDraft, StatusDocumentsPending, StatusUnderReview, StatusApproved, StatusRejected},
	StatusDocumentsPending: {StatusDocumentsPending, StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview:      {StatusUnderReview, StatusDocumentsPending, StatusApproved, StatusRejected},
	StatusApproved:         {},
	StatusRejected:         {},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the application to the target status or fails with
// ErrInvalidTransition, stamping StatusUpdatedAt on success.
func (a *LoanApplication) Transition(to Status) error {
	if !CanTransition(a.Status, to) {
		return ErrInvalidTransition
	}
	a.Status = to
	a.StatusUpdatedAt = time.Now().UTC()
	return nil
}

// Editable reports whether the applicant may still change the working copy.
func (a *LoanApplication) Editable() bool {
	return a.Status == StatusDraft || a.Status == StatusSubmitted
}

// BucketRisk maps an eligibility score onto the officer triage tiers. The
// bucket boundaries are fixed policy and deliberately not aligned with
// either eligibility threshold.
func BucketRisk(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func ValidOwnership(o HomeOwnership) bool {
	switch o {
	case OwnershipRent, OwnershipOwn, OwnershipMortgage, OwnershipOther:
		return true
	}
	return false
}

func ValidIntent(i LoanIntent) bool {
	switch i {
	case IntentPersonal, IntentEducation, IntentMedical, IntentVenture, IntentHomeImprovement, IntentDebtConsolidation:
		return true
	}
	return false
}
