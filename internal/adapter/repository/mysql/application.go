package mysql

import (
	"context"
	"strings"

	appDomain "loanflow-backend/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var forUpdateClause = clause.Locking{Strength: "UPDATE"}

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.LoanApplication) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Save is version-checked: the UPDATE only matches the version the caller
// read, so a concurrent write surfaces as ErrVersionConflict instead of a
// silent lost update.
func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.LoanApplication) error {
	prev := a.Version
	a.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&appDomain.LoanApplication{}).
		Where("id = ? AND version = ?", a.ID, prev).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		a.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		a.Version = prev
		return appDomain.ErrVersionConflict
	}
	return nil
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	return &out, res.Error
}

// GetByApplicationIDForUpdate locks the row for the duration of the
// surrounding transaction.
func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Clauses(forUpdateClause).
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetActiveByUserID(ctx context.Context, userID string) (*appDomain.LoanApplication, error) {
	var out appDomain.LoanApplication
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

// sortColumns is the List allow-list; anything else falls back to newest
// first.
var sortColumns = map[string]string{
	"created_at":        "loan_applications.created_at",
	"updated_at":        "loan_applications.updated_at",
	"status_updated_at": "loan_applications.status_updated_at",
	"loan_amnt":         "loan_applications.amount",
	"eligibility_score": "loan_applications.eligibility_score",
	"status":            "loan_applications.status",
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.ListFilter) ([]appDomain.LoanApplication, error) {
	q := r.db.WithContext(ctx).Model(&appDomain.LoanApplication{})

	if f.Status != "" {
		q = q.Where("loan_applications.status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Joins("JOIN users ON users.user_id = loan_applications.user_id").
			Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	order := "loan_applications.created_at DESC"
	if f.Sort != "" {
		field := f.Sort
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			dir = "DESC"
		}
		if col, ok := sortColumns[field]; ok {
			order = col + " " + dir
		}
	}

	var out []appDomain.LoanApplication
	res := q.Order(order).Find(&out)
	return out, res.Error
}
