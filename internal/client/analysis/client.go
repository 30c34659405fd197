package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"loanflow-backend/pkg/apperror"
)

// Input is the applicant snapshot sent for rejection-factor analysis.
type Input struct {
	Age           int     `json:"age"`
	Income        float64 `json:"income"`
	Ownership     string  `json:"ownership"`
	EmploymentLen float64 `json:"employment_len"`
	LoanIntent    string  `json:"loan_intent"`
	LoanAmnt      float64 `json:"loan_amnt"`
	LoanIntRate   float64 `json:"loan_int_rate"`
	CredHistLen   float64 `json:"cred_hist_len"`
	CreditScore   float64 `json:"creditScore"`
}

// Report is the parsed narrative. The upstream message is semi-structured
// free text, so parsing is best-effort: Raw always carries the full message,
// Summary and Factors are filled only when the expected markers are present.
type Report struct {
	Raw     string   `json:"raw"`
	Summary string   `json:"summary,omitempty"`
	Factors []string `json:"factors,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Analyse(ctx context.Context, in Input) (*Report, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("analysis", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.NewUpstream("analysis", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperror.NewUpstream("analysis", "malformed response", err)
	}
	return Parse(out.Message), nil
}

var reNumbered = regexp.MustCompile(`^\d+\.\s*`)

// Parse splits the narrative into a leading ⚠ summary line and numbered
// factor sections. Lines continuing a numbered section are folded into it.
func Parse(message string) *Report {
	r := &Report{Raw: message}
	var current *strings.Builder
	flush := func() {
		if current != nil {
			if s := strings.TrimSpace(current.String()); s != "" {
				r.Factors = append(r.Factors, s)
			}
			current = nil
		}
	}
	for _, line := range strings.Split(message, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case r.Summary == "" && strings.HasPrefix(trimmed, "⚠"):
			r.Summary = strings.TrimSpace(strings.TrimPrefix(trimmed, "⚠"))
		case reNumbered.MatchString(trimmed):
			flush()
			current = &strings.Builder{}
			current.WriteString(reNumbered.ReplaceAllString(trimmed, ""))
		case current != nil && trimmed != "":
			current.WriteString(" ")
			current.WriteString(trimmed)
		}
	}
	flush()
	return r
}
