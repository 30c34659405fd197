package mysql

import (
	"context"

	userDomain "loanflow-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) Delete(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Delete(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByAuthID(ctx context.Context, authID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetDocument(ctx context.Context, userRef uint64, docType userDomain.DocType) (*userDomain.Document, error) {
	var out userDomain.Document
	res := r.db.WithContext(ctx).
		Where("user_ref = ? AND doc_type = ?", userRef, docType).
		First(&out)
	return &out, res.Error
}

func (r *UserRepository) ListDocuments(ctx context.Context, userRef uint64) ([]userDomain.Document, error) {
	var out []userDomain.Document
	res := r.db.WithContext(ctx).
		Where("user_ref = ?", userRef).
		Order("doc_type ASC").
		Find(&out)
	return out, res.Error
}

func (r *UserRepository) SaveDocument(ctx context.Context, d *userDomain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}
