package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/pkg/apperror"
)

// Input carries the applicant and loan attributes the predictor scores.
// LoanPercentIncome is in percentage units ((amount/income)*100) everywhere.
type Input struct {
	Age               int
	Income            float64
	Ownership         application.HomeOwnership
	EmploymentYears   float64
	Intent            application.LoanIntent
	Amount            float64
	InterestRate      float64
	LoanPercentIncome float64
	CreditHistYears   float64
}

type Result struct {
	EligibilityScore float64
	IsEligible       bool
	RiskLevel        application.RiskLevel
}

type request struct {
	Age               int     `json:"age"`
	Income            float64 `json:"income"`
	Ownership         string  `json:"ownership"`
	EmploymentLen     float64 `json:"employment_len"`
	LoanIntent        string  `json:"loan_intent"`
	LoanAmnt          float64 `json:"loan_amnt"`
	LoanIntRate       float64 `json:"loan_int_rate"`
	LoanPercentIncome float64 `json:"loan_percent_income"`
	CredHistLen       float64 `json:"cred_hist_len"`
}

// response tolerates both field spellings the predictor has been seen to
// return; only the normalized probability leaves this package.
type response struct {
	ProbEligibleSpaced *float64 `json:"prob of eligible"`
	ProbEligible       *float64 `json:"prob_eligible"`
}

func (r response) probability() (float64, bool) {
	if r.ProbEligible != nil {
		return *r.ProbEligible, true
	}
	if r.ProbEligibleSpaced != nil {
		return *r.ProbEligibleSpaced, true
	}
	return 0, false
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// ComputeLoanPercentIncome returns amount/income as a percentage, rounded to
// two decimals. Income must be positive; callers validate before dividing.
func ComputeLoanPercentIncome(amount, income float64) float64 {
	v := amount / income * 100
	return float64(int64(v*100+0.5)) / 100
}

func validate(in Input) error {
	ve := &apperror.ValidationError{}
	if in.Age < 18 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "age", Message: "must be at least 18"})
	}
	if in.Income <= 0 {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "income", Message: "must be greater than 0"})
	}
	if in.Amount <= 0 || in.Amount > float64(application.MaxLoanAmount) {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: "loan_amnt", Message: fmt.Sprintf("must be between 1 and %d", application.MaxLoanAmount)})
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Score calls the external predictor and normalizes its answer. Failures are
// UpstreamServiceError; this client never retries and never defaults a score.
func (c *Client) Score(ctx context.Context, in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	pct := in.LoanPercentIncome
	if pct == 0 {
		pct = ComputeLoanPercentIncome(in.Amount, in.Income)
	}

	body, err := json.Marshal(request{
		Age:               in.Age,
		Income:            in.Income,
		Ownership:         string(in.Ownership),
		EmploymentLen:     in.EmploymentYears,
		LoanIntent:        string(in.Intent),
		LoanAmnt:          in.Amount,
		LoanIntRate:       in.InterestRate,
		LoanPercentIncome: pct,
		CredHistLen:       in.CreditHistYears,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("scoring", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.NewUpstream("scoring", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.NewUpstream("scoring", "malformed response", err)
	}
	prob, ok := out.probability()
	if !ok {
		return nil, apperror.NewUpstream("scoring", "response missing eligibility probability", nil)
	}
	if prob < 0 || prob > 1 {
		return nil, apperror.NewUpstream("scoring", fmt.Sprintf("probability %v out of range", prob), nil)
	}

	score := prob * 100
	return &Result{
		EligibilityScore: score,
		IsEligible:       score > application.ApprovalEligibleThreshold,
		RiskLevel:        application.BucketRisk(score),
	}, nil
}
