package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type DocType string

const (
	DocPANCard       DocType = "PAN_CARD"
	DocAadharCard    DocType = "AADHAR_CARD"
	DocIncomeProof   DocType = "INCOME_PROOF"
	DocBankStatement DocType = "BANK_STATEMENT"
)

// RequiredDocTypes is the checklist an applicant must satisfy before approval.
var RequiredDocTypes = []DocType{DocPANCard, DocAadharCard, DocIncomeProof, DocBankStatement}

func ValidDocType(t DocType) bool {
	switch t {
	case DocPANCard, DocAadharCard, DocIncomeProof, DocBankStatement:
		return true
	}
	return false
}

type DocStatus string

const (
	// DocNotUploaded is the virtual state of a checklist slot with no row.
	DocNotUploaded DocStatus = "not_uploaded"
	DocPending     DocStatus = "pending"
	DocVerified    DocStatus = "verified"
	DocRejected    DocStatus = "rejected"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDocNotFound       = errors.New("document not found")
	ErrInvalidTransition = errors.New("invalid document status transition")
)

// Document is one uploaded checklist item. At most one live row exists per
// (user, doc_type); a re-upload rewrites the row rather than inserting.
type Document struct {
	ID      uint64  `gorm:"primaryKey;column:id" json:"-"`
	UserRef uint64  `gorm:"column:user_ref;not null;index;uniqueIndex:ux_documents_user_type_active" json:"-"`
	DocType DocType `gorm:"size:32;not null;uniqueIndex:ux_documents_user_type_active" json:"document_type"`

	Status          DocStatus `gorm:"type:enum('pending','verified','rejected');default:'pending'" json:"status"`
	RejectionReason string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	FilePath   string    `gorm:"type:text" json:"-"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `gorm:"size:64" json:"mime_type"`
	UploadDate time.Time `json:"upload_date"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string { return "documents" }

// CanSetStatus guards the admin transition. Verification decisions only make
// sense over an uploaded document; pending → verified|rejected, and a
// verified document may be sent back to rejected if the officer reconsiders.
func CanSetStatus(from, to DocStatus) bool {
	switch to {
	case DocVerified, DocRejected:
		return from == DocPending || from == DocVerified || from == DocRejected
	case DocPending:
		// only re-upload resets to pending, not an admin edit
		return false
	}
	return false
}
