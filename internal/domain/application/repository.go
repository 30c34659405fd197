package application

import "context"

// ListFilter narrows the admin listing. Status is exact-match, Search is a
// case-insensitive substring over the applicant name, Sort is a column name
// with an optional '-' prefix for descending.
type ListFilter struct {
	Status Status
	Search string
	Sort   string
}

type Repository interface {
	Create(ctx context.Context, a *LoanApplication) error
	GetByApplicationID(ctx context.Context, applicationID string) (*LoanApplication, error)
	GetActiveByUserID(ctx context.Context, userID string) (*LoanApplication, error)
	// Save performs a version-checked write; ErrVersionConflict on a stale copy.
	Save(ctx context.Context, a *LoanApplication) error
	List(ctx context.Context, f ListFilter) ([]LoanApplication, error)
}
