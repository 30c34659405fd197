package applicationmock

import (
	"context"

	domain "loanflow-backend/internal/domain/application"
)

// Repo is a function-backed mock that satisfies application.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, a *domain.LoanApplication) error
	GetByApplicationIDFn func(ctx context.Context, applicationID string) (*domain.LoanApplication, error)
	GetActiveByUserIDFn  func(ctx context.Context, userID string) (*domain.LoanApplication, error)
	SaveFn               func(ctx context.Context, a *domain.LoanApplication) error
	ListFn               func(ctx context.Context, f domain.ListFilter) ([]domain.LoanApplication, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.LoanApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveByUserID(ctx context.Context, userID string) (*domain.LoanApplication, error) {
	if m.GetActiveByUserIDFn != nil {
		return m.GetActiveByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, a *domain.LoanApplication) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.LoanApplication, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
