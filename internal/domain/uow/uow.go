package uow

import (
	"context"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/user"
)

type Repos struct {
	Users        user.Repository
	Applications application.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.LoanApplication) error) error
}
