package uowmock

import (
	"context"
	"errors"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Fill in the
// function fields a test needs; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApplicationTxFn func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *application.LoanApplication) error) error
}

// Passthrough builds a mock that runs callbacks directly against the given
// repos with no transaction, which is what most usecase tests want.
func Passthrough(r uow.Repos, apps application.Repository) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinApplicationTxFn: func(ctx context.Context, applicationID string, fn func(uow.Repos, *application.LoanApplication) error) error {
			a, err := apps.GetByApplicationID(ctx, applicationID)
			if err != nil {
				return err
			}
			return fn(r, a)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *application.LoanApplication) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, applicationID, fn)
	}
	return errUnimplemented
}
