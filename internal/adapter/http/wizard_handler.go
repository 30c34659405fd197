package http

import (
	"context"
	"net/http"

	"loanflow-backend/internal/adapter/middleware"
	"loanflow-backend/internal/client/analysis"
	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/usecase/wizard"

	"github.com/labstack/echo/v4"
)

// Analyser produces a human-readable breakdown for rejected drafts. Nil-able
// so the wizard still works when the analysis service is not configured.
type Analyser interface {
	Analyse(ctx context.Context, in analysis.Input) (*analysis.Report, error)
}

type WizardHandler struct {
	uc       *wizard.Usecase
	analyser Analyser
}

func NewWizardHandler(uc *wizard.Usecase, analyser Analyser) *WizardHandler {
	return &WizardHandler{uc: uc, analyser: analyser}
}

type saveWizardReq struct {
	Step      int    `json:"step" validate:"required,gte=1,lte=3"`
	Direction string `json:"direction" validate:"omitempty,oneof=next back"`

	Amount          float64 `json:"loan_amnt"`
	TenureMonths    int     `json:"tenure_months"`
	InterestRate    float64 `json:"loan_int_rate"`
	Intent          string  `json:"loan_intent" validate:"omitempty,loanintent"`
	Age             int     `json:"age"`
	Income          float64 `json:"income"`
	Ownership       string  `json:"ownership" validate:"omitempty,ownership"`
	EmploymentYears float64 `json:"employment_len"`
	CreditHistYears float64 `json:"cred_hist_len"`
}

func (r saveWizardReq) form() wizard.FormData {
	return wizard.FormData{
		Amount:          r.Amount,
		TenureMonths:    r.TenureMonths,
		InterestRate:    r.InterestRate,
		Intent:          application.LoanIntent(r.Intent),
		Age:             r.Age,
		Income:          r.Income,
		Ownership:       application.HomeOwnership(r.Ownership),
		EmploymentYears: r.EmploymentYears,
		CreditHistYears: r.CreditHistYears,
	}
}

type wizardResp struct {
	Application any         `json:"application"`
	Step        wizard.Step `json:"step"`
}

// Get returns the resume payload: the working copy (null when none) and the
// step the applicant should land on.
func (h *WizardHandler) Get(c echo.Context) error {
	u := middleware.CurrentUser(c)
	app, step, err := h.uc.Resume(c.Request().Context(), u.UserID)
	if err != nil {
		return writeError(c, err)
	}
	resp := wizardResp{Step: step}
	if app != nil {
		resp.Application = app
	}
	return c.JSON(http.StatusOK, resp)
}

// Save moves the wizard. "next" validates the step being left and autosaves
// the submitted form; "back" touches nothing server-side and just returns
// the stored record at the previous step.
func (h *WizardHandler) Save(c echo.Context) error {
	u := middleware.CurrentUser(c)
	var req saveWizardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	ctx := c.Request().Context()
	if req.Direction == "back" {
		app, err := h.uc.Get(ctx, u.UserID)
		if err != nil {
			return writeError(c, err)
		}
		resp := wizardResp{Step: h.uc.Back(wizard.Step(req.Step))}
		if app != nil {
			resp.Application = app
		}
		return c.JSON(http.StatusOK, resp)
	}

	step, app, err := h.uc.Advance(ctx, u.UserID, wizard.Step(req.Step), req.form())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, wizardResp{Application: app, Step: step})
}

type submitResp struct {
	*wizard.Outcome
	Analysis *analysis.Report `json:"analysis,omitempty"`
}

// Submit scores the draft and routes the applicant. For drafts routed to
// analysis the breakdown is attached best-effort; a failed analysis call
// never fails the submit.
func (h *WizardHandler) Submit(c echo.Context) error {
	u := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	out, err := h.uc.Submit(ctx, u.UserID)
	if err != nil {
		return writeError(c, err)
	}

	resp := submitResp{Outcome: out}
	if out.Route == wizard.RouteAnalysis && h.analyser != nil {
		app := out.Application
		report, aerr := h.analyser.Analyse(ctx, analysis.Input{
			Age:           app.Age,
			Income:        app.Income,
			Ownership:     string(app.Ownership),
			EmploymentLen: app.EmploymentYears,
			LoanIntent:    string(app.Intent),
			LoanAmnt:      app.Amount,
			LoanIntRate:   app.InterestRate,
			CredHistLen:   app.CreditHistYears,
			CreditScore:   derefFloat(app.EligibilityScore),
		})
		if aerr == nil {
			resp.Analysis = report
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
