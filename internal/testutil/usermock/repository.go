package usermock

import (
	"context"

	domain "loanflow-backend/internal/domain/user"
)

// Repo is a function-backed mock that satisfies user.Repository. Only set
// the fields a test needs; unset lookups fail loudly via gorm-free errors.
type Repo struct {
	CreateFn        func(ctx context.Context, u *domain.User) error
	GetByUserIDFn   func(ctx context.Context, userID string) (*domain.User, error)
	GetByAuthIDFn   func(ctx context.Context, authID string) (*domain.User, error)
	SaveFn          func(ctx context.Context, u *domain.User) error
	DeleteFn        func(ctx context.Context, u *domain.User) error
	GetDocumentFn   func(ctx context.Context, userRef uint64, docType domain.DocType) (*domain.Document, error)
	ListDocumentsFn func(ctx context.Context, userRef uint64) ([]domain.Document, error)
	SaveDocumentFn  func(ctx context.Context, d *domain.Document) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	if m.GetByAuthIDFn != nil {
		return m.GetByAuthIDFn(ctx, authID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, u *domain.User) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetDocument(ctx context.Context, userRef uint64, docType domain.DocType) (*domain.Document, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(ctx, userRef, docType)
	}
	return nil, context.Canceled
}

func (m *Repo) ListDocuments(ctx context.Context, userRef uint64) ([]domain.Document, error) {
	if m.ListDocumentsFn != nil {
		return m.ListDocumentsFn(ctx, userRef)
	}
	return nil, nil
}

func (m *Repo) SaveDocument(ctx context.Context, d *domain.Document) error {
	if m.SaveDocumentFn != nil {
		return m.SaveDocumentFn(ctx, d)
	}
	return nil
}
