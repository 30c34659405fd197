package mysql

import (
	"context"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Users:        &UserRepository{db: tx},
			Applications: &ApplicationRepository{db: tx},
		}
		return fn(r)
	})
}

func (u *GormUoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *application.LoanApplication) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apps := &ApplicationRepository{db: tx}
		r := uow.Repos{
			Users:        &UserRepository{db: tx},
			Applications: apps,
		}
		// lock the application row up-front to prevent races
		a, err := apps.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
