package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"loanflow-backend/internal/domain/user"
	"loanflow-backend/pkg/apperror"

	"gorm.io/gorm"
)

// FileStore is the durable file backend: Put must be atomic per key and only
// drop the superseded file once the replacement is in place.
type FileStore interface {
	Put(userID, docType string, r io.Reader, ext string, oldPath string) (string, error)
	Remove(path string) error
}

type Usecase struct {
	users user.Repository
	files FileStore
}

func NewUsecase(users user.Repository, files FileStore) *Usecase {
	return &Usecase{users: users, files: files}
}

// Per-type upload limits. Identity documents accept images or PDF at 5MB;
// financial statements are PDF-only at 10MB.
type typeRule struct {
	maxBytes int64
	mimes    map[string]string // mime → file extension
}

var imageOrPDF = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

var pdfOnly = map[string]string{"application/pdf": ".pdf"}

var rules = map[user.DocType]typeRule{
	user.DocPANCard:       {maxBytes: 5 << 20, mimes: imageOrPDF},
	user.DocAadharCard:    {maxBytes: 5 << 20, mimes: imageOrPDF},
	user.DocIncomeProof:   {maxBytes: 10 << 20, mimes: pdfOnly},
	user.DocBankStatement: {maxBytes: 10 << 20, mimes: pdfOnly},
}

type UploadInput struct {
	UserID   string
	DocType  user.DocType
	File     io.Reader
	Size     int64
	MimeType string
}

// Upload validates and stores a document, replacing any previous upload for
// the same type. The new row always lands in pending with a cleared
// rejection reason, whatever the previous status was.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (*user.Document, error) {
	rule, ok := rules[in.DocType]
	if !ok {
		return nil, apperror.NewValidation("documentType", "unknown document type")
	}
	ext, ok := rule.mimes[strings.ToLower(in.MimeType)]
	if !ok {
		return nil, apperror.NewValidation("file", "file type "+in.MimeType+" is not allowed for "+string(in.DocType))
	}
	if in.Size <= 0 || in.Size > rule.maxBytes {
		return nil, apperror.NewValidation("file", "file exceeds the size limit for "+string(in.DocType))
	}

	owner, err := u.users.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, apperror.NewNotFound("user", in.UserID)
	}

	existing, err := u.users.GetDocument(ctx, owner.ID, in.DocType)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = nil
	default:
		return nil, err
	}

	oldPath := ""
	if existing != nil {
		oldPath = existing.FilePath
	}
	path, err := u.files.Put(in.UserID, string(in.DocType), in.File, ext, oldPath)
	if err != nil {
		return nil, err
	}

	doc := existing
	if doc == nil {
		doc = &user.Document{UserRef: owner.ID, DocType: in.DocType}
	}
	doc.Status = user.DocPending
	doc.RejectionReason = ""
	doc.FilePath = path
	doc.FileSize = in.Size
	doc.MimeType = strings.ToLower(in.MimeType)
	doc.UploadDate = time.Now().UTC()

	if err := u.users.SaveDocument(ctx, doc); err != nil {
		// the row write failed; the freshly stored file must not leak
		_ = u.files.Remove(path)
		return nil, err
	}
	return doc, nil
}

// SetStatus is the officer-side transition. Rejection demands a reason; any
// other target clears it.
func (u *Usecase) SetStatus(ctx context.Context, userID string, docType user.DocType, status user.DocStatus, rejectionReason string) (*user.Document, error) {
	if !user.ValidDocType(docType) {
		return nil, apperror.NewValidation("documentType", "unknown document type")
	}
	if status == user.DocRejected && strings.TrimSpace(rejectionReason) == "" {
		return nil, apperror.NewValidation("rejectionReason", "is required when rejecting a document")
	}

	owner, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID)
	}
	doc, err := u.users.GetDocument(ctx, owner.ID, docType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("document", string(docType))
		}
		return nil, err
	}

	if !user.CanSetStatus(doc.Status, status) {
		return nil, user.ErrInvalidTransition
	}
	doc.Status = status
	if status == user.DocRejected {
		doc.RejectionReason = rejectionReason
	} else {
		doc.RejectionReason = ""
	}
	if err := u.users.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetStatus reports not_uploaded for checklist slots with no row.
func (u *Usecase) GetStatus(ctx context.Context, userID string, docType user.DocType) (user.DocStatus, error) {
	if !user.ValidDocType(docType) {
		return "", apperror.NewValidation("documentType", "unknown document type")
	}
	owner, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return "", apperror.NewNotFound("user", userID)
	}
	doc, err := u.users.GetDocument(ctx, owner.ID, docType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.DocNotUploaded, nil
		}
		return "", err
	}
	return doc.Status, nil
}

// IsComplete is true iff every required type is verified.
func IsComplete(docs []user.Document, required []user.DocType) bool {
	verified, _ := Progress(docs, required)
	return verified == len(required)
}

// Progress counts verified slots out of the required set.
func Progress(docs []user.Document, required []user.DocType) (verified, total int) {
	byType := make(map[user.DocType]user.DocStatus, len(docs))
	for _, d := range docs {
		byType[d.DocType] = d.Status
	}
	for _, t := range required {
		if byType[t] == user.DocVerified {
			verified++
		}
	}
	return verified, len(required)
}

// Missing lists required types whose status is anything but verified.
func Missing(docs []user.Document, required []user.DocType) []user.DocType {
	byType := make(map[user.DocType]user.DocStatus, len(docs))
	for _, d := range docs {
		byType[d.DocType] = d.Status
	}
	var out []user.DocType
	for _, t := range required {
		if byType[t] != user.DocVerified {
			out = append(out, t)
		}
	}
	return out
}

// List returns the full checklist for a user, including virtual not_uploaded
// entries for types with no row yet.
func (u *Usecase) List(ctx context.Context, userID string) ([]user.Document, error) {
	owner, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID)
	}
	stored, err := u.users.ListDocuments(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	byType := make(map[user.DocType]user.Document, len(stored))
	for _, d := range stored {
		byType[d.DocType] = d
	}
	out := make([]user.Document, 0, len(user.RequiredDocTypes))
	for _, t := range user.RequiredDocTypes {
		if d, ok := byType[t]; ok {
			out = append(out, d)
		} else {
			out = append(out, user.Document{UserRef: owner.ID, DocType: t, Status: user.DocNotUploaded})
		}
	}
	return out, nil
}
