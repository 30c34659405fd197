package application

import (
	"errors"
	"testing"
)

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusDraft, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusUnderReview, false},
		{StatusSubmitted, StatusDraft, true},
		{StatusSubmitted, StatusDocumentsPending, true},
		{StatusSubmitted, StatusUnderReview, true},
		{StatusSubmitted, StatusApproved, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusDocumentsPending, StatusUnderReview, true},
		{StatusDocumentsPending, StatusDraft, false},
		{StatusUnderReview, StatusDocumentsPending, true},
		{StatusUnderReview, StatusApproved, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusUnderReview, false},
		{StatusRejected, StatusSubmitted, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestTransition_IllegalMoveLeavesStatusUntouched(t *testing.T) {
	a := &LoanApplication{Status: StatusApproved}
	if err := a.Transition(StatusRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if a.Status != StatusApproved {
		t.Fatalf("status mutated to %s on failed transition", a.Status)
	}
}

func TestTransition_StampsStatusUpdatedAt(t *testing.T) {
	a := &LoanApplication{Status: StatusDraft}
	if err := a.Transition(StatusSubmitted); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if a.Status != StatusSubmitted || a.StatusUpdatedAt.IsZero() {
		t.Fatalf("status=%s updated_at=%v", a.Status, a.StatusUpdatedAt)
	}
}

func TestEditable_OnlyApplicantHeldStates(t *testing.T) {
	editable := map[Status]bool{
		StatusDraft:            true,
		StatusSubmitted:        true,
		StatusDocumentsPending: false,
		StatusUnderReview:      false,
		StatusApproved:         false,
		StatusRejected:         false,
	}
	for status, want := range editable {
		a := &LoanApplication{Status: status}
		if got := a.Editable(); got != want {
			t.Errorf("Editable(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestBucketRisk_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{95, RiskLow},
		{80, RiskLow},
		{79.99, RiskMedium},
		{60, RiskMedium},
		{59.99, RiskHigh},
		{0, RiskHigh},
	}
	for _, tc := range cases {
		if got := BucketRisk(tc.score); got != tc.want {
			t.Errorf("BucketRisk(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
