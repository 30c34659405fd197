package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"loanflow-backend/internal/client/scoring"
	domain "loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/uow"
	"loanflow-backend/internal/testutil/applicationmock"
	"loanflow-backend/internal/testutil/uowmock"
	"loanflow-backend/internal/testutil/usermock"
	"loanflow-backend/pkg/apperror"

	"gorm.io/gorm"
)

const uid = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type stubScorer struct {
	res   *scoring.Result
	err   error
	calls int
}

func (s *stubScorer) Score(ctx context.Context, in scoring.Input) (*scoring.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

// memApps keeps one application per user in memory with version bumping.
func memApps() (*applicationmock.Repo, map[string]*domain.LoanApplication) {
	store := map[string]*domain.LoanApplication{}
	repo := &applicationmock.Repo{
		CreateFn: func(ctx context.Context, a *domain.LoanApplication) error {
			cp := *a
			store[a.UserID] = &cp
			return nil
		},
		GetActiveByUserIDFn: func(ctx context.Context, userID string) (*domain.LoanApplication, error) {
			if a, ok := store[userID]; ok {
				cp := *a
				return &cp, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
			for _, a := range store {
				if a.ApplicationID == applicationID {
					cp := *a
					return &cp, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(ctx context.Context, a *domain.LoanApplication) error {
			cur, ok := store[a.UserID]
			if ok && cur.Version != a.Version {
				return domain.ErrVersionConflict
			}
			cp := *a
			cp.Version++
			store[a.UserID] = &cp
			a.Version = cp.Version
			return nil
		},
	}
	return repo, store
}

func newWizard(sc Scorer) (*Usecase, map[string]*domain.LoanApplication) {
	apps, store := memApps()
	u := NewUsecase(&usermock.Repo{}, apps, uowmock.Passthrough(uow.Repos{Applications: apps}, apps), sc)
	return u, store
}

func validTerms() FormData {
	return FormData{
		Amount:       200000,
		TenureMonths: 36,
		InterestRate: 11.5,
		Intent:       domain.IntentPersonal,
		Age:          25,
	}
}

func validFull() FormData {
	f := validTerms()
	f.Income = 600000
	f.Ownership = domain.OwnershipRent
	f.EmploymentYears = 3
	f.CreditHistYears = 4
	return f
}

func TestAdvance_Step1BlockedUnder18(t *testing.T) {
	u, store := newWizard(&stubScorer{})

	f := validTerms()
	f.Age = 17
	next, _, err := u.Advance(context.Background(), uid, StepTerms, f)
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if next != StepTerms {
		t.Fatalf("next = %d, want to stay on step 1", next)
	}
	hasAgeField := false
	for _, fe := range ve.Fields {
		if fe.Field == "age" {
			hasAgeField = true
		}
	}
	if !hasAgeField {
		t.Fatalf("no field-level age error in %v", ve.Fields)
	}
	if len(store) != 0 {
		t.Fatal("draft autosaved despite validation failure")
	}
}

func TestAdvance_Step1AllowedAtExactly18(t *testing.T) {
	u, store := newWizard(&stubScorer{})

	f := validTerms()
	f.Age = 18
	next, app, err := u.Advance(context.Background(), uid, StepTerms, f)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if next != StepProfile {
		t.Fatalf("next = %d, want step 2", next)
	}
	if app.Status != domain.StatusDraft {
		t.Fatalf("status = %s, want draft", app.Status)
	}
	if len(store) != 1 {
		t.Fatal("draft not autosaved")
	}
}

func TestAdvance_Step1RejectsAmountOverMax(t *testing.T) {
	u, _ := newWizard(&stubScorer{})

	f := validTerms()
	f.Amount = float64(domain.MaxLoanAmount) + 1
	_, _, err := u.Advance(context.Background(), uid, StepTerms, f)
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAdvance_Step2ComputesPercentIncome(t *testing.T) {
	u, store := newWizard(&stubScorer{})

	next, app, err := u.Advance(context.Background(), uid, StepProfile, validFull())
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if next != StepResult {
		t.Fatalf("next = %d, want step 3", next)
	}
	if app.LoanPercentIncome != 33.33 {
		t.Fatalf("loan_percent_income = %v, want 33.33", app.LoanPercentIncome)
	}
	if store[uid].LoanPercentIncome != 33.33 {
		t.Fatal("percentage not persisted")
	}
}

func TestBack_NoValidationNoSave(t *testing.T) {
	u, store := newWizard(&stubScorer{})

	if got := u.Back(StepProfile); got != StepTerms {
		t.Fatalf("Back(2) = %d, want 1", got)
	}
	if got := u.Back(StepTerms); got != StepTerms {
		t.Fatalf("Back(1) = %d, want 1", got)
	}
	if len(store) != 0 {
		t.Fatal("Back wrote something")
	}
}

// Scenario: prob 0.82 → score 82, eligible (82 > 70), LOW risk, routed to
// document verification (82 ≥ 50).
func TestSubmit_HighScoreRoutesToDocuments(t *testing.T) {
	sc := &stubScorer{res: &scoring.Result{EligibilityScore: 82, IsEligible: true, RiskLevel: domain.RiskLow}}
	u, store := newWizard(sc)
	ctx := context.Background()

	if _, _, err := u.Advance(ctx, uid, StepProfile, validFull()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	out, err := u.Submit(ctx, uid)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Route != RouteDocuments {
		t.Fatalf("route = %s, want documents", out.Route)
	}
	saved := store[uid]
	if saved.EligibilityScore == nil || *saved.EligibilityScore != 82 {
		t.Fatalf("persisted score = %v", saved.EligibilityScore)
	}
	if saved.IsEligible == nil || !*saved.IsEligible {
		t.Fatal("persisted IsEligible = false, want true")
	}
	if saved.RiskLevel != domain.RiskLow {
		t.Fatalf("persisted risk = %s", saved.RiskLevel)
	}
	if saved.Status != domain.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", saved.Status)
	}
}

// Scenario: prob 0.55 → score 55, NOT eligible (55 ≤ 70) yet still routed to
// documents because the display threshold is 50. The two thresholds are
// deliberately independent.
func TestSubmit_MediumScoreStillRoutesToDocuments(t *testing.T) {
	sc := &stubScorer{res: &scoring.Result{EligibilityScore: 55, IsEligible: false, RiskLevel: domain.RiskMedium}}
	u, store := newWizard(sc)
	ctx := context.Background()

	if _, _, err := u.Advance(ctx, uid, StepProfile, validFull()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	out, err := u.Submit(ctx, uid)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Route != RouteDocuments {
		t.Fatalf("route = %s, want documents (55 ≥ 50)", out.Route)
	}
	if saved := store[uid]; saved.IsEligible == nil || *saved.IsEligible {
		t.Fatal("IsEligible should be false at 55")
	}
}

func TestSubmit_LowScoreRoutesToAnalysis(t *testing.T) {
	sc := &stubScorer{res: &scoring.Result{EligibilityScore: 42, IsEligible: false, RiskLevel: domain.RiskHigh}}
	u, _ := newWizard(sc)
	ctx := context.Background()

	if _, _, err := u.Advance(ctx, uid, StepProfile, validFull()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	out, err := u.Submit(ctx, uid)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Route != RouteAnalysis {
		t.Fatalf("route = %s, want analysis", out.Route)
	}
}

func TestSubmit_UpstreamFailureLeavesDraftUntouched(t *testing.T) {
	sc := &stubScorer{err: apperror.NewUpstream("scoring", "unexpected status 503", nil)}
	u, store := newWizard(sc)
	ctx := context.Background()

	if _, _, err := u.Advance(ctx, uid, StepProfile, validFull()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	before := *store[uid]

	_, err := u.Submit(ctx, uid)
	var ue *apperror.UpstreamServiceError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamServiceError", err)
	}
	after := *store[uid]
	if after.EligibilityScore != nil || after.Status != domain.StatusDraft {
		t.Fatalf("draft mutated on upstream failure: %+v", after)
	}
	if before.Version != after.Version {
		t.Fatal("version bumped on failed submit")
	}
}

func TestSubmit_WithoutDraftIsNotFound(t *testing.T) {
	u, _ := newWizard(&stubScorer{})

	_, err := u.Submit(context.Background(), uid)
	var nf *apperror.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestUpsert_VersionConflictSurfacesAsConflict(t *testing.T) {
	apps, store := memApps()
	u := NewUsecase(&usermock.Repo{}, apps, uowmock.Passthrough(uow.Repos{Applications: apps}, apps), &stubScorer{})
	ctx := context.Background()

	if _, err := u.Upsert(ctx, uid, validTerms()); err != nil {
		t.Fatalf("create: %v", err)
	}
	// simulate an admin write landing in between
	store[uid].Version++

	_, err := u.Upsert(ctx, uid, FormData{Amount: 250000})
	var ce *apperror.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestResume(t *testing.T) {
	sc := &stubScorer{res: &scoring.Result{EligibilityScore: 82, IsEligible: true, RiskLevel: domain.RiskLow}}
	u, _ := newWizard(sc)
	ctx := context.Background()

	app, step, err := u.Resume(ctx, uid)
	if err != nil || app != nil || step != StepTerms {
		t.Fatalf("empty resume = (%v, %d, %v), want (nil, 1, nil)", app, step, err)
	}

	if _, _, err := u.Advance(ctx, uid, StepTerms, validTerms()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	app, step, err = u.Resume(ctx, uid)
	if err != nil || app == nil || step != StepProfile {
		t.Fatalf("terms-only resume step = %d, want 2", step)
	}

	if _, _, err := u.Advance(ctx, uid, StepProfile, validFull()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := u.Submit(ctx, uid); err != nil {
		t.Fatalf("submit: %v", err)
	}
	app, step, err = u.Resume(ctx, uid)
	if err != nil || step != StepResult {
		t.Fatalf("scored resume step = %d, want 3", step)
	}
	if app.EligibilityScore == nil || *app.EligibilityScore != 82 {
		t.Fatalf("resume did not prefill score: %+v", app)
	}
	if strings.TrimSpace(app.ApplicationID) == "" {
		t.Fatal("resume lost the application id")
	}
}
