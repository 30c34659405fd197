package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByAuthID(ctx context.Context, authID string) (*User, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error

	// Documents are owned by the user aggregate but written independently to
	// keep upload/review requests small.
	GetDocument(ctx context.Context, userRef uint64, docType DocType) (*Document, error)
	ListDocuments(ctx context.Context, userRef uint64) ([]Document, error)
	SaveDocument(ctx context.Context, d *Document) error
}
