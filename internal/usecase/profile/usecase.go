package profile

import (
	"context"
	"errors"

	"loanflow-backend/internal/domain/user"
	"loanflow-backend/internal/usecase/document"
	"loanflow-backend/pkg/apperror"
	"loanflow-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	users user.Repository
	files document.FileStore
}

func NewUsecase(users user.Repository, files document.FileStore) *Usecase {
	return &Usecase{users: users, files: files}
}

// EnsureUser returns the account for an external-auth identity, creating it
// on first login. Identity fields are only ever written here.
func (u *Usecase) EnsureUser(ctx context.Context, authID, email, name, picture string) (*user.User, error) {
	existing, err := u.users.GetByAuthID(ctx, authID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	nu := &user.User{
		UserID:        id.NewID32(),
		AuthID:        authID,
		Email:         email,
		Name:          name,
		Picture:       picture,
		ProfileStatus: user.ProfilePending,
		KYCStatus:     user.KYCPending,
	}
	if err := u.users.Create(ctx, nu); err != nil {
		return nil, err
	}
	return nu, nil
}

type UpdateInput struct {
	Phone         *string
	Address       *string
	Occupation    *string
	Employer      *string
	MonthlyIncome *float64
}

// Update merges the supplied profile fields and recomputes the derived
// profile status. Identity fields are untouchable from here.
func (u *Usecase) Update(ctx context.Context, userID string, in UpdateInput) (*user.User, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID)
	}
	if in.Phone != nil {
		usr.Phone = *in.Phone
	}
	if in.Address != nil {
		usr.Address = *in.Address
	}
	if in.Occupation != nil {
		usr.Occupation = *in.Occupation
	}
	if in.Employer != nil {
		usr.Employer = *in.Employer
	}
	if in.MonthlyIncome != nil {
		if *in.MonthlyIncome < 0 {
			return nil, apperror.NewValidation("monthly_income", "must not be negative")
		}
		usr.MonthlyIncome = *in.MonthlyIncome
	}
	usr.ProfileStatus = usr.DeriveProfileStatus()
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// Delete soft-deletes the account and removes every stored document file.
func (u *Usecase) Delete(ctx context.Context, userID string) error {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return apperror.NewNotFound("user", userID)
	}
	docs, err := u.users.ListDocuments(ctx, usr.ID)
	if err != nil {
		return err
	}
	if err := u.users.Delete(ctx, usr); err != nil {
		return err
	}
	for _, d := range docs {
		_ = u.files.Remove(d.FilePath)
	}
	return nil
}
