package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loanflow-backend/internal/client/scoring"
	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/uow"
	"loanflow-backend/internal/domain/user"
	"loanflow-backend/pkg/apperror"
	"loanflow-backend/pkg/id"

	"gorm.io/gorm"
)

type Step int

const (
	StepTerms   Step = 1
	StepProfile Step = 2
	StepResult  Step = 3
)

// Route is where the result step sends the applicant. The routing threshold
// (DisplayEligibleThreshold) is looser than the stored IsEligible flag on
// purpose; a borderline applicant still gets to upload documents.
type Route string

const (
	RouteDocuments Route = "document_verification"
	RouteAnalysis  Route = "analysis"
)

// Scorer is the eligibility predictor boundary.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) (*scoring.Result, error)
}

type Usecase struct {
	users  user.Repository
	apps   application.Repository
	uow    uow.UnitOfWork
	scorer Scorer
}

func NewUsecase(users user.Repository, apps application.Repository, tx uow.UnitOfWork, scorer Scorer) *Usecase {
	return &Usecase{users: users, apps: apps, uow: tx, scorer: scorer}
}

// FormData is the wizard's accumulated working copy. Zero values mean "not
// provided"; Upsert merges only provided fields.
type FormData struct {
	Amount          float64                   `json:"loan_amnt"`
	TenureMonths    int                       `json:"tenure_months"`
	InterestRate    float64                   `json:"loan_int_rate"`
	Intent          application.LoanIntent    `json:"loan_intent"`
	Age             int                       `json:"age"`
	Income          float64                   `json:"income"`
	Ownership       application.HomeOwnership `json:"ownership"`
	EmploymentYears float64                   `json:"employment_len"`
	CreditHistYears float64                   `json:"cred_hist_len"`
}

func validateTerms(f FormData) *apperror.ValidationError {
	ve := &apperror.ValidationError{}
	if f.Amount <= 0 || f.Amount > float64(application.MaxLoanAmount) {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "loan_amnt", Message: fmt.Sprintf("must be between 1 and %d", application.MaxLoanAmount)})
	}
	if f.TenureMonths <= 0 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "tenure_months", Message: "is required"})
	}
	if !application.ValidIntent(f.Intent) {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "loan_intent", Message: "is not a recognized loan purpose"})
	}
	if f.Age < 18 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "age", Message: "must be at least 18"})
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func validateProfile(f FormData) *apperror.ValidationError {
	ve := &apperror.ValidationError{}
	if f.Income <= 0 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "income", Message: "must be greater than 0"})
	}
	if !application.ValidOwnership(f.Ownership) {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "ownership", Message: "is not a recognized home ownership"})
	}
	if f.EmploymentYears < 0 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "employment_len", Message: "must not be negative"})
	}
	if f.CreditHistYears < 0 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "cred_hist_len", Message: "must not be negative"})
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Advance validates the fields of the step being left, autosaves the merged
// form as the user's draft, and returns the next step. A validation failure
// saves nothing and keeps the caller on the current step.
func (u *Usecase) Advance(ctx context.Context, userID string, from Step, f FormData) (Step, *application.LoanApplication, error) {
	switch from {
	case StepTerms:
		if ve := validateTerms(f); ve != nil {
			return from, nil, ve
		}
	case StepProfile:
		if ve := validateTerms(f); ve != nil {
			return from, nil, ve
		}
		if ve := validateProfile(f); ve != nil {
			return from, nil, ve
		}
	default:
		return from, nil, apperror.NewValidation("step", "cannot advance from this step")
	}

	app, err := u.Upsert(ctx, userID, f)
	if err != nil {
		return from, nil, err
	}
	return from + 1, app, nil
}

// Back never validates and never saves.
func (u *Usecase) Back(from Step) Step {
	if from <= StepTerms {
		return StepTerms
	}
	return from - 1
}

// Get returns the user's active working copy, or nil when none exists.
func (u *Usecase) Get(ctx context.Context, userID string) (*application.LoanApplication, error) {
	app, err := u.apps.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

// Upsert merges the provided fields into the draft, creating it when absent.
// loan_percent_income is recomputed here; the server value wins over any
// caller-supplied figure.
func (u *Usecase) Upsert(ctx context.Context, userID string, f FormData) (*application.LoanApplication, error) {
	app, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		app = &application.LoanApplication{
			ApplicationID:   id.NewID32(),
			UserID:          userID,
			Status:          application.StatusDraft,
			StatusUpdatedAt: time.Now().UTC(),
		}
		merge(app, f)
		if err := u.apps.Create(ctx, app); err != nil {
			return nil, err
		}
		return app, nil
	}

	if !app.Editable() {
		return nil, apperror.NewPrecondition("application is no longer editable in status " + string(app.Status))
	}
	merge(app, f)
	if err := u.apps.Save(ctx, app); err != nil {
		if errors.Is(err, application.ErrVersionConflict) {
			return nil, apperror.NewConflict("application was modified concurrently, reload and retry")
		}
		return nil, err
	}
	return app, nil
}

func merge(app *application.LoanApplication, f FormData) {
	if f.Amount > 0 {
		app.Amount = f.Amount
	}
	if f.TenureMonths > 0 {
		app.TenureMonths = f.TenureMonths
	}
	if f.InterestRate > 0 {
		app.InterestRate = f.InterestRate
	}
	if f.Intent != "" {
		app.Intent = f.Intent
	}
	if f.Age > 0 {
		app.Age = f.Age
	}
	if f.Income > 0 {
		app.Income = f.Income
	}
	if f.Ownership != "" {
		app.Ownership = f.Ownership
	}
	if f.EmploymentYears > 0 {
		app.EmploymentYears = f.EmploymentYears
	}
	if f.CreditHistYears > 0 {
		app.CreditHistYears = f.CreditHistYears
	}
	if app.Amount > 0 && app.Income > 0 {
		app.LoanPercentIncome = scoring.ComputeLoanPercentIncome(app.Amount, app.Income)
	}
}

// Outcome is what the result step renders.
type Outcome struct {
	Application *application.LoanApplication `json:"application"`
	Result      scoring.Result               `json:"result"`
	Route       Route                        `json:"route"`
}

// Submit scores the draft and persists score, eligibility and risk level in
// one write, moving the application to submitted. An upstream failure leaves
// the draft exactly as it was.
func (u *Usecase) Submit(ctx context.Context, userID string) (*Outcome, error) {
	app, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperror.NewNotFound("application", "")
	}
	if !app.Editable() {
		return nil, apperror.NewPrecondition("application already out of the applicant's hands in status " + string(app.Status))
	}

	res, err := u.scorer.Score(ctx, scoring.Input{
		Age:               app.Age,
		Income:            app.Income,
		Ownership:         app.Ownership,
		EmploymentYears:   app.EmploymentYears,
		Intent:            app.Intent,
		Amount:            app.Amount,
		InterestRate:      app.InterestRate,
		LoanPercentIncome: app.LoanPercentIncome,
		CreditHistYears:   app.CreditHistYears,
	})
	if err != nil {
		return nil, err
	}

	// Score, flag and risk tier always land together.
	err = u.uow.WithinApplicationTx(ctx, app.ApplicationID, func(r uow.Repos, locked *application.LoanApplication) error {
		score := res.EligibilityScore
		eligible := res.IsEligible
		locked.EligibilityScore = &score
		locked.IsEligible = &eligible
		locked.RiskLevel = res.RiskLevel
		if locked.Status == application.StatusDraft {
			if err := locked.Transition(application.StatusSubmitted); err != nil {
				return err
			}
		}
		if err := r.Applications.Save(ctx, locked); err != nil {
			return err
		}
		app = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	route := RouteAnalysis
	if res.EligibilityScore >= application.DisplayEligibleThreshold {
		route = RouteDocuments
	}
	return &Outcome{Application: app, Result: *res, Route: route}, nil
}

// Resume rebuilds wizard state on entry: prefill from any active record and
// land on the result step when a score already exists.
func (u *Usecase) Resume(ctx context.Context, userID string) (*application.LoanApplication, Step, error) {
	app, err := u.Get(ctx, userID)
	if err != nil {
		return nil, StepTerms, err
	}
	switch {
	case app == nil:
		return nil, StepTerms, nil
	case app.EligibilityScore != nil:
		return app, StepResult, nil
	case app.Amount > 0:
		return app, StepProfile, nil
	default:
		return app, StepTerms, nil
	}
}
